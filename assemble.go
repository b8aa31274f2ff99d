package gpushader

const (
	declarationsBanner = "\n// Declaration of all variables\n\n"
	helpersBanner      = "\n// Declaration of all helper methods\n\n"
)

// fragments are the source buffers accumulated by a descriptor.
type fragments struct {
	Declarations   string
	HelperMethods  string
	FunctionHeader string
	FunctionBody   string
	FunctionFooter string
}

// appendShaderSource appends the program made of the class wrapper header,
// the fragments in declaration order and the class wrapper footer to dst.
func appendShaderSource(dst []byte, wrapHeader string, frag fragments, wrapFooter string) []byte {
	segments := [...]string{
		wrapHeader,
		frag.Declarations,
		frag.HelperMethods,
		frag.FunctionHeader,
		frag.FunctionBody,
		frag.FunctionFooter,
		wrapFooter,
	}
	n := 0
	for _, s := range segments {
		n += len(s)
	}
	if cap(dst)-len(dst) < n {
		grown := make([]byte, len(dst), len(dst)+n)
		copy(grown, dst)
		dst = grown
	}
	for _, s := range segments {
		dst = append(dst, s...)
	}
	return dst
}
