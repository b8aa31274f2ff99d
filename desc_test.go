package gpushader_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gpushader"
	"github.com/soypat/gpushader/shadertext"
)

func TestDefaults(t *testing.T) {
	d := gpushader.New()
	if d.Language() != shadertext.GLSL1_2 {
		t.Errorf("want default language glsl_1.2, got %s", d.Language())
	}
	if d.FunctionName() != "OCIOMain" || d.ResourcePrefix() != "ocio" || d.PixelName() != "outColor" {
		t.Errorf("unexpected default names %q %q %q", d.FunctionName(), d.ResourcePrefix(), d.PixelName())
	}
	if d.ClassWrapper() != nil {
		t.Error("glsl should not have class wrapper")
	}
	const want = "glsl_1.2 OCIOMain ocio outColor 0 "
	if got := d.CacheID(); got != want {
		t.Errorf("want cache ID %q, got %q", want, got)
	}
}

func TestCacheIDDeterministic(t *testing.T) {
	for _, lang := range shadertext.Languages() {
		d := gpushader.New()
		if err := d.SetLanguage(lang); err != nil {
			t.Fatal(err)
		}
		d.NextResourceIndex()
		d.AddToDeclareShaderCode("uniform float ocio_exposure;\n")
		d.AddToFunctionHeaderShaderCode("vec4 " + d.FunctionName() + "(vec4 inPixel)\n{\n")
		d.AddToFunctionShaderCode("    inPixel.rgb *= ocio_exposure;\n")
		d.AddToFunctionFooterShaderCode("    return inPixel;\n}\n")
		if err := d.Finalize(); err != nil {
			t.Fatal(err)
		}
		id1 := d.CacheID()
		id2 := d.CacheID()
		if id1 != id2 {
			t.Errorf("%s: cache ID not stable: %q != %q", lang, id1, id2)
		}
		fields := strings.Fields(id1)
		if len(fields) != 6 {
			t.Fatalf("%s: want 6 cache ID fields, got %q", lang, id1)
		}
		want := []string{lang.String(), d.FunctionName(), "ocio", "outColor", "1", d.ContentID()}
		for i := range want {
			if fields[i] != want[i] {
				t.Errorf("%s: cache ID field %d want %q, got %q", lang, i, want[i], fields[i])
			}
		}
		if d.ContentID() != shadertext.ContentID([]byte(d.ShaderText())) {
			t.Errorf("%s: content ID does not match shader text digest", lang)
		}
	}
}

func TestCacheIDTracksConfiguration(t *testing.T) {
	d := gpushader.New()
	base := d.CacheID()
	d.SetFunctionName("other")
	if d.CacheID() == base {
		t.Error("function name change did not change cache ID")
	}
	d.SetFunctionName("OCIOMain")
	if d.CacheID() != base {
		t.Error("restoring function name did not restore cache ID")
	}
	d.SetUniqueID("uid-1")
	if d.CacheID() != base {
		t.Error("unique ID is not part of cache ID")
	}
	d.NextResourceIndex()
	if d.CacheID() == base {
		t.Error("resource count not reflected in cache ID")
	}
}

func TestNameSanitization(t *testing.T) {
	d := gpushader.New()
	d.SetFunctionName("foo__bar__baz")
	d.SetResourcePrefix("ocio__")
	d.SetPixelName("out___Color")
	if got := d.FunctionName(); got != "foo_bar_baz" {
		t.Errorf("function name: want foo_bar_baz, got %q", got)
	}
	if got := d.ResourcePrefix(); got != "ocio_" {
		t.Errorf("resource prefix: want ocio_, got %q", got)
	}
	if got := d.PixelName(); strings.Contains(got, "__") {
		t.Errorf("pixel name still contains double underscore: %q", got)
	}
}

func TestNextResourceIndex(t *testing.T) {
	d := gpushader.New()
	const n = 10
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			d.SetResourcePrefix(fmt.Sprintf("p%d", i))
			d.AddToDeclareShaderCode("// noise\n")
		}
		got := d.NextResourceIndex()
		if got != uint32(i) {
			t.Fatalf("want resource index %d, got %d", i, got)
		}
	}
	if d.NumResources() != n {
		t.Errorf("want %d resources, got %d", n, d.NumResources())
	}
}

func TestDynamicProperties(t *testing.T) {
	d := gpushader.New()
	exposure, err := gpushader.NewScalarProperty(gpushader.PropertyExposure, 1)
	if err != nil {
		t.Fatal(err)
	}
	primary, err := gpushader.NewRGBProperty(gpushader.PropertyGradingPrimary, ms3.Vec{X: 1, Y: 0.5, Z: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddDynamicProperty(exposure); err != nil {
		t.Fatal(err)
	}
	if err := d.AddDynamicProperty(primary); err != nil {
		t.Fatal(err)
	}
	dup, _ := gpushader.NewScalarProperty(gpushader.PropertyExposure, 2)
	err = d.AddDynamicProperty(dup)
	if !errors.Is(err, gpushader.ErrDuplicateProperty) {
		t.Errorf("want duplicate property error, got %v", err)
	}
	if d.NumDynamicProperties() != 2 {
		t.Fatalf("failed registration mutated registry: %d properties", d.NumDynamicProperties())
	}
	if err := d.AddDynamicProperty(nil); !errors.Is(err, gpushader.ErrNilProperty) {
		t.Errorf("want nil property error, got %v", err)
	}

	for i, want := range []*gpushader.DynamicProperty{exposure, primary} {
		got, err := d.DynamicProperty(i)
		if err != nil {
			t.Fatal(err)
		} else if got != want {
			t.Errorf("index %d: got property %s", i, got.Type())
		}
		got, err = d.DynamicPropertyByType(want.Type())
		if err != nil {
			t.Fatal(err)
		} else if got != want {
			t.Errorf("type %s: got property %s", want.Type(), got.Type())
		}
	}
	if _, err := d.DynamicProperty(2); !errors.Is(err, gpushader.ErrIndexOutOfRange) {
		t.Errorf("want index out of range, got %v", err)
	}
	if _, err := d.DynamicProperty(-1); !errors.Is(err, gpushader.ErrIndexOutOfRange) {
		t.Errorf("want index out of range, got %v", err)
	}
	if _, err := d.DynamicPropertyByType(gpushader.PropertyGamma); !errors.Is(err, gpushader.ErrPropertyNotFound) {
		t.Errorf("want not found, got %v", err)
	}
	if !d.HasDynamicProperty(gpushader.PropertyExposure) || d.HasDynamicProperty(gpushader.PropertyContrast) {
		t.Error("HasDynamicProperty mismatch")
	}
}

func TestPropertyValues(t *testing.T) {
	exposure, _ := gpushader.NewScalarProperty(gpushader.PropertyExposure, 2)
	if got := exposure.Gain(); math32.Abs(got-4) > 1e-5 {
		t.Errorf("exposure of 2 stops: want gain 4, got %v", got)
	}
	gamma, _ := gpushader.NewScalarProperty(gpushader.PropertyGamma, 0)
	if got := gamma.Value(); got <= 0 {
		t.Errorf("gamma should be clamped above zero, got %v", got)
	}
	if _, err := gpushader.NewScalarProperty(gpushader.PropertyGradingTone, 1); !errors.Is(err, gpushader.ErrConfiguration) {
		t.Errorf("want configuration error for RGB type as scalar, got %v", err)
	}
	if _, err := gpushader.NewRGBProperty(gpushader.PropertyGamma, ms3.Vec{}); !errors.Is(err, gpushader.ErrConfiguration) {
		t.Errorf("want configuration error for scalar type as RGB, got %v", err)
	}
	typ, err := gpushader.ParsePropertyType("grading_rgbcurve")
	if err != nil || typ != gpushader.PropertyGradingRGBCurve {
		t.Errorf("parse property type: got %v %v", typ, err)
	}
}

func TestAddDynamicUniform(t *testing.T) {
	tests := []struct {
		lang shadertext.Language
		want string
	}{
		{lang: shadertext.GLSL4_0, want: "uniform float ocio_exposure;\n"},
		{lang: shadertext.HLSLDX11, want: "uniform float ocio_exposure;\n"},
		{lang: shadertext.MSL2_0, want: "float ocio_exposure;\n"},
		{lang: shadertext.OSL1, want: "float ocio_exposure = 0;\n"},
	}
	for _, test := range tests {
		d := gpushader.New()
		if err := d.SetLanguage(test.lang); err != nil {
			t.Fatal(err)
		}
		p, _ := gpushader.NewScalarProperty(gpushader.PropertyExposure, 0.5)
		name, err := d.AddDynamicUniform(p)
		if err != nil {
			t.Fatal(err)
		} else if name != "ocio_exposure" {
			t.Errorf("%s: want uniform name ocio_exposure, got %q", test.lang, name)
		}
		if _, err := d.AddDynamicUniform(p); !errors.Is(err, gpushader.ErrDuplicateProperty) {
			t.Errorf("%s: want duplicate error, got %v", test.lang, err)
		}
		if err := d.Finalize(); err != nil {
			t.Fatal(err)
		}
		if c := strings.Count(d.ShaderText(), test.want); c != 1 {
			t.Errorf("%s: want one %q declaration, got %d in\n%s", test.lang, test.want, c, d.ShaderText())
		}
	}
}

func TestFragmentOrderAndBanners(t *testing.T) {
	d := gpushader.New()
	d.AddToFunctionFooterShaderCode("F")
	d.AddToFunctionShaderCode("B")
	d.AddToHelperShaderCode("")
	d.AddToHelperShaderCode("H1")
	d.AddToFunctionHeaderShaderCode("X")
	d.AddToDeclareShaderCode("D1")
	d.AddToDeclareShaderCode("")
	d.AddToDeclareShaderCode("D2")
	d.AddToHelperShaderCode("H2")
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	const want = "\n// Declaration of all variables\n\nD1D2" +
		"\n// Declaration of all helper methods\n\nH1H2" +
		"XBF"
	if got := d.ShaderText(); got != want {
		t.Errorf("want\n%q\ngot\n%q", want, got)
	}
}

func TestEmptyAssembly(t *testing.T) {
	d := gpushader.New()
	d.AddToDeclareShaderCode("")
	d.AddToHelperShaderCode("")
	d.AddToFunctionShaderCode("")
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	if d.ShaderText() != "" {
		t.Errorf("want empty shader text, got %q", d.ShaderText())
	}
	if d.ContentID() != shadertext.ContentID(nil) {
		t.Errorf("want digest of empty input, got %q", d.ContentID())
	}
}

func TestSetLanguage(t *testing.T) {
	d := gpushader.New()
	err := d.SetLanguage(shadertext.LangUndefined)
	if !errors.Is(err, gpushader.ErrConfiguration) || !errors.Is(err, shadertext.ErrUnknownLanguage) {
		t.Errorf("want configuration error, got %v", err)
	}
	if d.Language() != shadertext.GLSL1_2 {
		t.Error("failed SetLanguage changed language")
	}
	d.SetFunctionName("custom")
	if err := d.SetLanguage(shadertext.MSL2_0); err != nil {
		t.Fatal(err)
	}
	if d.FunctionName() != "Display" {
		t.Errorf("metal should force Display entry point, got %q", d.FunctionName())
	}
	if d.ClassWrapper() == nil {
		t.Error("metal should allocate class wrapper")
	}
	if err := d.SetLanguage(shadertext.HLSLDX11); err != nil {
		t.Fatal(err)
	}
	if d.ClassWrapper() != nil {
		t.Error("class wrapper not discarded on language change")
	}
}

func TestMetalClassWrapper(t *testing.T) {
	d := gpushader.New()
	if err := d.SetLanguage(shadertext.MSL2_0); err != nil {
		t.Fatal(err)
	}
	mustNil(t, d.AddTexture(gpushader.Texture{Name: "ocio_lut1d_0", Width: 4096, Height: 1}))
	mustNil(t, d.AddTexture(gpushader.Texture{Name: "ocio_lut2d_1", Width: 4096, Height: 4, Channel: gpushader.ChannelRGB}))
	mustNil(t, d.Add3DTexture(gpushader.Texture3D{Name: "ocio_lut3d_2", EdgeLen: 33, Interpolation: gpushader.InterpTetrahedral}))
	d.AddToDeclareShaderCode("texture3d<float> ocio_lut3d_2;\n")
	d.AddToFunctionHeaderShaderCode("float4 Display(float4 inPixel)\n{\n")
	d.AddToFunctionShaderCode("    float4 outColor = inPixel;\n")
	d.AddToFunctionFooterShaderCode("    return outColor;\n}\n")
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	want := []shadertext.FunctionParam{
		{Type: "texture3d<float>", Name: "ocio_lut3d_2"},
		{Type: "sampler", Name: "ocio_lut3d_2Sampler"},
		{Type: "texture1d<float>", Name: "ocio_lut1d_0"},
		{Type: "sampler", Name: "ocio_lut1d_0Sampler"},
		{Type: "texture2d<float>", Name: "ocio_lut2d_1"},
		{Type: "sampler", Name: "ocio_lut2d_1Sampler"},
	}
	got := d.ClassWrapper().Params()
	if len(got) != len(want) {
		t.Fatalf("want %d params, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("param %d: want %v, got %v", i, want[i], got[i])
		}
	}
	text := d.ShaderText()
	for _, banner := range []string{"// Declaration of class wrapper", "// close class wrapper"} {
		if c := strings.Count(text, banner); c != 1 {
			t.Errorf("want banner %q once, got %d", banner, c)
		}
	}
	if !strings.HasPrefix(text, d.ClassWrapper().Header()) || !strings.HasSuffix(text, d.ClassWrapper().Footer()) {
		t.Errorf("class wrapper not enclosing program:\n%s", text)
	}
	if !strings.Contains(text, ").Display(inPixel);") {
		t.Errorf("footer does not forward to entry point:\n%s", text)
	}
	if strings.Index(text, "struct OCIO") > strings.Index(text, "// Declaration of all variables") {
		t.Error("class header must precede declarations")
	}
}

func TestOSLProgram(t *testing.T) {
	d := gpushader.New()
	if err := d.SetLanguage(shadertext.OSL1); err != nil {
		t.Fatal(err)
	}
	d.SetFunctionName("myTransform")
	d.AddToDeclareShaderCode("float scale = 2;\n")
	d.AddToFunctionHeaderShaderCode("color4 myTransform(color4 inPixel)\n{\n")
	d.AddToFunctionShaderCode("    color4 outColor = inPixel;\n")
	d.AddToFunctionFooterShaderCode("    return outColor;\n}\n")
	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	text := d.ShaderText()
	if c := strings.Count(text, "shader OSL_myTransform("); c != 1 {
		t.Errorf("want one shader declaration, got %d", c)
	}
	if c := strings.Count(text, "outColor = myTransform(inColor);"); c != 1 {
		t.Errorf("want one output assignment, got %d", c)
	}
	includeIdx := strings.Index(text, `#include "vector4.h"`)
	shaderIdx := strings.Index(text, "shader OSL_")
	declIdx := strings.Index(text, "float scale = 2;")
	if includeIdx < 0 || !(includeIdx < shaderIdx && shaderIdx < declIdx) {
		t.Errorf("wrong program layout:\n%s", text)
	}
	if !strings.HasSuffix(text, "outColor = myTransform(inColor);\n}\n") {
		t.Errorf("program not closed by footer:\n%s", text)
	}

	id := d.CacheID()
	err := d.Finalize()
	if !errors.Is(err, gpushader.ErrFinalized) {
		t.Errorf("want already finalized error, got %v", err)
	}
	if d.ShaderText() != text || d.CacheID() != id {
		t.Error("second finalize mutated descriptor")
	}
}

func TestClone(t *testing.T) {
	d := gpushader.New()
	mustNil(t, d.SetLanguage(shadertext.OSL1))
	d.SetUniqueID("uid")
	d.NextResourceIndex()
	d.AddToDeclareShaderCode("float a = 1;\n")
	d.AddToFunctionHeaderShaderCode("color4 OCIOMain(color4 inPixel)\n{\n")
	d.AddToFunctionFooterShaderCode("    return inPixel;\n}\n")
	mustNil(t, d.Add3DTexture(gpushader.Texture3D{Name: "lut", EdgeLen: 2, Values: make([]float32, 24)}))
	p, _ := gpushader.NewScalarProperty(gpushader.PropertyContrast, 1)
	mustNil(t, d.AddDynamicProperty(p))
	mustNil(t, d.Finalize())

	c, err := d.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if c.Finalized() || c.ShaderText() != "" || c.ContentID() != "" {
		t.Error("clone carried over assembled program")
	}
	if c.NumDynamicProperties() != 0 {
		t.Error("clone carried over dynamic properties")
	}
	if c.UniqueID() != "uid" || c.Language() != shadertext.OSL1 || c.NumResources() != 1 {
		t.Error("clone lost configuration")
	}
	mustNil(t, c.Finalize())
	if c.ShaderText() != d.ShaderText() {
		t.Errorf("clone assembled different program:\n%s\n\nwant:\n%s", c.ShaderText(), d.ShaderText())
	}
	if c.CacheID() != d.CacheID() {
		t.Errorf("clone cache ID %q differs from %q", c.CacheID(), d.CacheID())
	}

	// Mutating the clone must not affect the source.
	tex, _ := c.Texture3D(0)
	tex.Values[0] = 1
	orig, _ := d.Texture3D(0)
	if orig.Values[0] != 0 {
		t.Error("clone shares texture values with source")
	}
	c.SetFunctionName("changed")
	if d.FunctionName() == "changed" {
		t.Error("clone shares configuration with source")
	}
}

func TestTextures(t *testing.T) {
	d := gpushader.New()
	if err := d.AddTexture(gpushader.Texture{Width: 2}); !errors.Is(err, gpushader.ErrConfiguration) {
		t.Errorf("want configuration error for empty name, got %v", err)
	}
	if err := d.Add3DTexture(gpushader.Texture3D{Name: "lut"}); !errors.Is(err, gpushader.ErrConfiguration) {
		t.Errorf("want configuration error for zero edge, got %v", err)
	}
	mustNil(t, d.AddTexture(gpushader.Texture{Name: "curve", Width: 16, SamplerName: "curveSmp"}))
	tex, err := d.Texture(0)
	if err != nil {
		t.Fatal(err)
	}
	if tex.SamplerName != "curveSmp" || tex.Height != 1 || tex.Dimensions() != shadertext.Tex1D {
		t.Errorf("unexpected texture %+v", tex)
	}
	if _, err := d.Texture(1); !errors.Is(err, gpushader.ErrIndexOutOfRange) {
		t.Errorf("want index out of range, got %v", err)
	}
	if _, err := d.Texture3D(0); !errors.Is(err, gpushader.ErrIndexOutOfRange) {
		t.Errorf("want index out of range, got %v", err)
	}
}

func TestCacheIDConcurrentReaders(t *testing.T) {
	d := gpushader.New()
	var wg sync.WaitGroup
	const readers = 8
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if id := d.CacheID(); len(strings.Fields(id)) < 5 {
					t.Errorf("malformed cache ID %q", id)
					return
				}
			}
		}()
	}
	for j := 0; j < 200; j++ {
		d.SetPixelName(fmt.Sprintf("px%d", j))
	}
	wg.Wait()
	if got := d.CacheID(); !strings.Contains(got, " px199 ") {
		t.Errorf("final cache ID not up to date: %q", got)
	}
}

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
