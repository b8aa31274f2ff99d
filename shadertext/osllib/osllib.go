// Package osllib holds the Open Shading Language scaffolding needed to turn a
// free color function into a complete OSL shader.
package osllib

import (
	_ "embed"

	"github.com/soypat/gpushader/shadertext"
)

//go:embed preamble.osl
var preambleSrc string

// ShaderPrefix is prepended to the function name to name the OSL shader.
const ShaderPrefix = "OSL_"

// Preamble returns the includes and the vector4/color4 operator overloads
// OSL lacks natively:
//
//	vector4 __operator__mul__(vector4 v, matrix m)
//	vector4 __operator__mul__(color4 c, vector4 v)
//	vector4 __operator__mul__(vector4 v, color4 c)
//	vector4 __operator__sub__(color4 c, vector4 v)
//	vector4 __operator__add__(vector4 v, color4 c)
//	vector4 __operator__add__(color4 c, vector4 v)
//	vector4 pow(color4 c, vector4 v)
//	vector4 max(vector4 v, color4 c)
func Preamble() string { return preambleSrc }

// ShaderOpen returns the shader declaration line and its opening brace.
func ShaderOpen(functionName string) string {
	w := shadertext.NewWriter(shadertext.OSL1)
	w.Line("shader " + ShaderPrefix + functionName +
		"(color4 inColor = {color(0), 1}, output color4 outColor = {color(0), 1})")
	w.Line("{")
	return w.String()
}

// ShaderClose returns the statement forwarding the input color through
// functionName into the shader output and the closing brace.
func ShaderClose(functionName string) string {
	w := shadertext.NewWriter(shadertext.OSL1)
	w.Line("")
	w.Line("outColor = " + functionName + "(inColor);")
	w.Line("}")
	return w.String()
}
