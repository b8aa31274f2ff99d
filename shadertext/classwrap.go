package shadertext

// FunctionParam is a typed parameter of a class wrapper entry point.
type FunctionParam struct {
	Type string
	Name string
}

// ClassWrapperHeader returns the opening of a class named className whose constructor
// receives params and stores each one as a member. It returns the empty string
// for languages without a class wrapper.
func ClassWrapperHeader(lang Language, className string, params []FunctionParam) string {
	if !HasClassWrapper(lang) {
		return ""
	}
	w := NewWriter(lang)
	w.Line("struct " + className)
	w.Line("{")
	if len(params) > 0 {
		w.Line(className + "(")
		w.Indent()
		writeParamList(w, params, "")
		w.Dedent()
		w.Line(")")
		w.Line("{")
		w.Indent()
		for _, p := range params {
			w.Line("this->" + p.Name + " = " + p.Name + ";")
		}
		w.Dedent()
		w.Line("}")
		w.Line("")
		for _, p := range params {
			w.Line(p.Type + " " + p.Name + ";")
		}
	}
	return w.String()
}

// ClassWrapperFooter returns the closing of the class started by [ClassWrapperHeader] followed
// by a free entry point named functionName. The entry point receives params plus the
// input pixel and forwards to the class method of the same name.
func ClassWrapperFooter(lang Language, className string, params []FunctionParam, functionName string) string {
	if !HasClassWrapper(lang) {
		return ""
	}
	vec4 := Vec4Keyword(lang)
	const pixel = "inPixel"
	w := NewWriter(lang)
	w.Line("};")
	if len(params) == 0 {
		w.Line(vec4 + " " + functionName + "(" + vec4 + " " + pixel + ")")
		w.Line("{")
		w.Indent()
		w.Line("return " + className + "()." + functionName + "(" + pixel + ");")
		w.Dedent()
		w.Line("}")
		return w.String()
	}
	w.Line(vec4 + " " + functionName + "(")
	w.Indent()
	writeParamList(w, params, ", "+vec4+" "+pixel+")")
	w.Dedent()
	w.Line("{")
	w.Indent()
	w.Line("return " + className + "(")
	w.Indent()
	for i, p := range params {
		if i == 0 {
			w.Line(p.Name)
		} else {
			w.Line(", " + p.Name)
		}
	}
	w.Dedent()
	w.Line(")." + functionName + "(" + pixel + ");")
	w.Dedent()
	w.Line("}")
	return w.String()
}

// writeParamList writes one "type name" per line with leading commas. trailer
// is written on its own line after the last parameter if not empty.
func writeParamList(w *Writer, params []FunctionParam, trailer string) {
	for i, p := range params {
		if i == 0 {
			w.Line(p.Type + " " + p.Name)
		} else {
			w.Line(", " + p.Type + " " + p.Name)
		}
	}
	if trailer != "" {
		w.Line(trailer)
	}
}
