// Package gpushader assembles GPU shader programs out of source fragments produced
// by a color transform compiler and computes a stable cache identity for them.
//
// A [ShaderDesc] is configured with a target language and naming, fed fragments
// through its AddTo* methods, finalized exactly once and then queried for the
// resulting program text and cache ID.
package gpushader

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration is returned for unknown languages and malformed resources.
	ErrConfiguration = errors.New("gpushader: invalid configuration")
	// ErrDuplicateProperty is returned when registering a dynamic property type twice.
	ErrDuplicateProperty = errors.New("gpushader: dynamic property already registered")
	// ErrPropertyNotFound is returned when no dynamic property of the requested type exists.
	ErrPropertyNotFound = errors.New("gpushader: dynamic property not found")
	// ErrIndexOutOfRange is returned by index based accessors.
	ErrIndexOutOfRange = errors.New("gpushader: index out of range")
	// ErrFinalized is returned when finalizing a descriptor a second time.
	ErrFinalized = errors.New("gpushader: shader already finalized")
	// ErrNilProperty is returned when registering a nil dynamic property.
	ErrNilProperty = errors.New("gpushader: nil dynamic property")
)

// Default names given to a new descriptor.
const (
	DefaultFunctionName   = "OCIOMain"
	DefaultResourcePrefix = "ocio"
	DefaultPixelName      = "outColor"
	// classWrapFunctionName is the entry point name mandated by class wrapped languages.
	classWrapFunctionName = "Display"
	classWrapperName      = "OCIO"
)

// sanitizeName removes double underscores which are reserved in some shading languages.
func sanitizeName(name string) string {
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return name
}
