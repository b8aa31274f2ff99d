package gpushader

// resourceCounter hands out resource binding indices. Indices are never reused
// during the lifetime of a descriptor.
type resourceCounter uint32

// next returns the current index and advances the counter.
func (rc *resourceCounter) next() uint32 {
	idx := uint32(*rc)
	*rc++
	return idx
}

// count returns how many indices have been handed out.
func (rc resourceCounter) count() uint32 { return uint32(rc) }
