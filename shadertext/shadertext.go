// Package shadertext knows how each supported GPU shading language spells
// its types, textures and samplers, and provides the low level text
// building blocks used to assemble shader programs.
package shadertext

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Language is a target GPU shading language.
type Language uint8

const (
	LangUndefined Language = iota
	Cg
	GLSL1_2
	GLSL1_3
	GLSL4_0
	GLSLES1_0
	GLSLES3_0
	HLSLDX11
	OSL1
	MSL2_0
	langEnd
)

var languageNames = [langEnd]string{
	LangUndefined: "",
	Cg:            "cg",
	GLSL1_2:       "glsl_1.2",
	GLSL1_3:       "glsl_1.3",
	GLSL4_0:       "glsl_4.0",
	GLSLES1_0:     "glsl_es_1.0",
	GLSLES3_0:     "glsl_es_3.0",
	HLSLDX11:      "hlsl_dx11",
	OSL1:          "osl_1",
	MSL2_0:        "msl_2",
}

// ErrUnknownLanguage is returned when a language tag or name is not supported.
var ErrUnknownLanguage = errors.New("unknown shading language")

// String returns the canonical lowercase name of the language, i.e: "glsl_1.2".
func (lang Language) String() string {
	if !lang.IsValid() {
		return "Language(" + strconv.Itoa(int(lang)) + ")"
	}
	return languageNames[lang]
}

// IsValid reports whether lang is one of the supported languages.
func (lang Language) IsValid() bool { return lang > LangUndefined && lang < langEnd }

// IsGLSL reports whether lang is any of the desktop or ES GLSL versions.
func (lang Language) IsGLSL() bool {
	switch lang {
	case GLSL1_2, GLSL1_3, GLSL4_0, GLSLES1_0, GLSLES3_0:
		return true
	}
	return false
}

// isHLSLLike reports whether lang uses HLSL style type spellings (float3, float4x4).
func (lang Language) isHLSLLike() bool {
	return lang == Cg || lang == HLSLDX11 || lang == MSL2_0
}

// ParseLanguage returns the language with the canonical name s. Matching is case insensitive.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := LangUndefined + 1; i < langEnd; i++ {
		if languageNames[i] == s {
			return i, nil
		}
	}
	return LangUndefined, fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Languages returns all supported languages in declaration order.
func Languages() []Language {
	langs := make([]Language, 0, langEnd-1)
	for i := LangUndefined + 1; i < langEnd; i++ {
		langs = append(langs, i)
	}
	return langs
}

// HasClassWrapper reports whether the language requires the generated function
// to be wrapped in a class that receives all bound resources explicitly.
func HasClassWrapper(lang Language) bool {
	return lang == MSL2_0
}

// Dimensions is the dimensionality of a texture resource.
type Dimensions uint8

const (
	Tex1D Dimensions = iota + 1
	Tex2D
	Tex3D
)

func (d Dimensions) String() string {
	switch d {
	case Tex1D:
		return "1D"
	case Tex2D:
		return "2D"
	case Tex3D:
		return "3D"
	}
	return "Dimensions(" + strconv.Itoa(int(d)) + ")"
}

// TexType returns the textual type name of a float texture with the given dimensions in lang.
// An empty string is returned for invalid arguments.
func TexType(lang Language, dims Dimensions) string {
	if dims < Tex1D || dims > Tex3D {
		return ""
	}
	switch {
	case lang == MSL2_0:
		return "texture" + strings.ToLower(dims.String()) + "<float>"
	case lang == HLSLDX11:
		return "Texture" + dims.String()
	case lang == GLSLES1_0 || lang == GLSLES3_0:
		if dims == Tex1D {
			dims = Tex2D // No 1D textures in GLSL ES.
		}
		return "sampler" + dims.String()
	case lang.IsGLSL() || lang == Cg:
		return "sampler" + dims.String()
	case lang == OSL1:
		return "string" // OSL looks textures up by file name.
	}
	return ""
}

// SamplerType returns the type name of a sampler object in lang, or the empty string
// if the language combines samplers and textures.
func SamplerType(lang Language) string {
	switch lang {
	case MSL2_0:
		return "sampler"
	case HLSLDX11:
		return "SamplerState"
	}
	return ""
}

// SamplerName returns the conventional sampler name for a texture.
func SamplerName(textureName string) string {
	return textureName + "Sampler"
}

// FloatKeyword returns the scalar float type name.
func FloatKeyword(lang Language) string { return "float" }

// Vec3Keyword returns the 3 component float vector type name.
func Vec3Keyword(lang Language) string {
	switch {
	case lang == OSL1:
		return "vector"
	case lang.isHLSLLike():
		return "float3"
	}
	return "vec3"
}

// Vec4Keyword returns the 4 component float vector type name.
func Vec4Keyword(lang Language) string {
	switch {
	case lang == OSL1:
		return "vector4"
	case lang.isHLSLLike():
		return "float4"
	}
	return "vec4"
}

// Mat4Keyword returns the 4x4 float matrix type name.
func Mat4Keyword(lang Language) string {
	switch {
	case lang == OSL1:
		return "matrix"
	case lang.isHLSLLike():
		return "float4x4"
	}
	return "mat4"
}

// ContentID returns a deterministic 128 bit digest of b formatted as 32 lowercase
// hexadecimal digits. Identical byte sequences always yield the same ID.
func ContentID(b []byte) string {
	const seed1, seed2 = 0xff51afd7ed558ccd, 0xc4ceb9fe1a85ec53
	n := uint64(len(b))
	h1 := mix(hash(b, seed1) ^ n)
	h2 := mix(hash(b, seed2) ^ n)
	var buf [32]byte
	dst := strconv.AppendUint(buf[:0], h1, 16)
	out := make([]byte, 0, 32)
	out = appendPadded(out, dst, 16)
	dst = strconv.AppendUint(buf[:0], h2, 16)
	out = appendPadded(out, dst, 16)
	return string(out)
}

func appendPadded(dst, digits []byte, width int) []byte {
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = mix(x)
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = mix(x)
	}
	return x
}

func mix(x uint64) uint64 {
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
