package gpushader

import "github.com/soypat/gpushader/shadertext"

const (
	classWrapHeaderBanner = "\n// Declaration of class wrapper\n\n"
	classWrapFooterBanner = "\n// close class wrapper\n\n"
)

// ClassWrapper holds the state of a class wrapped entry point: the resources
// the entry point receives and the source that opens and closes the class.
type ClassWrapper struct {
	params []shadertext.FunctionParam
	header string
	footer string
}

// Params returns a copy of the entry point parameters in declaration order.
func (cw *ClassWrapper) Params() []shadertext.FunctionParam {
	return append([]shadertext.FunctionParam(nil), cw.params...)
}

// Header returns the source placed before all other shader code.
func (cw *ClassWrapper) Header() string { return cw.header }

// Footer returns the source placed after all other shader code.
func (cw *ClassWrapper) Footer() string { return cw.footer }

func (cw *ClassWrapper) addParam(typ, name string) {
	cw.params = append(cw.params, shadertext.FunctionParam{Type: typ, Name: name})
}

func (cw *ClassWrapper) addToHeader(code string) {
	if cw.header == "" {
		cw.header = classWrapHeaderBanner
	}
	cw.header += code
}

func (cw *ClassWrapper) addToFooter(code string) {
	if cw.footer == "" {
		cw.footer = classWrapFooterBanner
	}
	cw.footer += code
}
