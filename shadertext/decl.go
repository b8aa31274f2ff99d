package shadertext

import (
	"bytes"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// ValueKind is the type of a declared shader value.
type ValueKind uint8

const (
	KindFloat ValueKind = iota + 1
	KindVec3
	KindVec4
	KindMat4
)

// Keyword returns the spelling of the value kind in lang.
func (k ValueKind) Keyword(lang Language) string {
	switch k {
	case KindFloat:
		return FloatKeyword(lang)
	case KindVec3:
		return Vec3Keyword(lang)
	case KindVec4:
		return Vec4Keyword(lang)
	case KindMat4:
		return Mat4Keyword(lang)
	}
	return ""
}

// AppendUniformDecl appends the declaration of an externally set value of kind k.
// Languages with a class wrapper declare it as a plain member, OSL declares
// a zero initialized local, everybody else declares a uniform.
func AppendUniformDecl(b []byte, lang Language, k ValueKind, name string) []byte {
	switch {
	case HasClassWrapper(lang):
	case lang == OSL1:
		b = append(b, k.Keyword(lang)...)
		b = append(b, ' ')
		b = append(b, name...)
		b = append(b, " = 0;\n"...)
		return b
	default:
		b = append(b, "uniform "...)
	}
	b = append(b, k.Keyword(lang)...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, ";\n"...)
	return b
}

// AppendFloatDecl appends a float constant declaration i.e: "float name = 1.5;".
func AppendFloatDecl(b []byte, lang Language, floatVarname string, v float32) []byte {
	b = append(b, FloatKeyword(lang)...)
	b = append(b, ' ')
	b = append(b, floatVarname...)
	b = append(b, " = "...)
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ";\n"...)
	return b
}

// AppendVec3Decl appends a 3 component vector constant declaration.
func AppendVec3Decl(b []byte, lang Language, vec3Varname string, v ms3.Vec) []byte {
	kw := Vec3Keyword(lang)
	b = append(b, kw...)
	b = append(b, ' ')
	b = append(b, vec3Varname...)
	b = append(b, " = "...)
	b = append(b, kw...)
	b = append(b, '(')
	arr := v.Array()
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ");\n"...)
	return b
}

// AppendMat4Decl appends a 4x4 matrix constant declaration. GLSL and MSL
// constructors take the matrix column by column, the rest take rows.
func AppendMat4Decl(b []byte, lang Language, mat4Varname string, m44 ms3.Mat4) []byte {
	arr := m44.Array()
	kw := Mat4Keyword(lang)
	colMajor := lang.IsGLSL() || lang == MSL2_0
	const n = 4
	b = append(b, kw...)
	b = append(b, ' ')
	b = append(b, mat4Varname...)
	b = append(b, " = "...)
	b = append(b, kw...)
	b = append(b, '(')
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := arr[i*n+j]
			if colMajor {
				v = arr[j*n+i]
			}
			b = AppendFloat(b, '-', '.', v)
			if i != n-1 || j != n-1 {
				b = append(b, ',')
			}
		}
	}
	b = append(b, ");\n"...)
	return b
}

const decimalDigits = 9

// AppendFloat appends a shader literal of v. Trailing zeroes after the decimal point are trimmed.
// Non finite values have no literal form in shading languages and are clamped to the largest float32.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	switch {
	case math32.IsNaN(v):
		v = 0
	case math32.IsInf(v, 1):
		v = math32.MaxFloat32
	case math32.IsInf(v, -1):
		v = -math32.MaxFloat32
	}
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

// AppendFloats appends comma separated float literals.
func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
