package gpushader

import (
	"fmt"

	"github.com/soypat/gpushader/shadertext"
	"github.com/soypat/gpushader/shadertext/osllib"
)

// languageAdapter adapts the fragments of a descriptor to the structural
// requirements of its language before they are assembled. Implementations
// modify frag, never the descriptor's accumulated fragments.
type languageAdapter interface {
	preprocess(d *ShaderDesc, frag *fragments) error
}

var adapters = map[shadertext.Language]languageAdapter{
	shadertext.Cg:        passthrough{},
	shadertext.GLSL1_2:   passthrough{},
	shadertext.GLSL1_3:   passthrough{},
	shadertext.GLSL4_0:   passthrough{},
	shadertext.GLSLES1_0: passthrough{},
	shadertext.GLSLES3_0: passthrough{},
	shadertext.HLSLDX11:  passthrough{},
	shadertext.OSL1:      programAdapter{},
	shadertext.MSL2_0:    classWrapAdapter{},
}

func adapterFor(lang shadertext.Language) (languageAdapter, error) {
	a, ok := adapters[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %w %s", ErrConfiguration, shadertext.ErrUnknownLanguage, lang)
	}
	return a, nil
}

func requiresClassWrapper(a languageAdapter) bool {
	_, ok := a.(classWrapAdapter)
	return ok
}

// passthrough leaves fragments as is. Used by languages where the function can be a free function.
type passthrough struct{}

func (passthrough) preprocess(*ShaderDesc, *fragments) error { return nil }

// classWrapAdapter turns every registered texture into explicit entry point
// parameters of a wrapping class.
type classWrapAdapter struct{}

func (classWrapAdapter) preprocess(d *ShaderDesc, _ *fragments) error {
	lang := d.state.Language
	cw := &ClassWrapper{}
	samplerType := shadertext.SamplerType(lang)
	for i := 0; i < d.Num3DTextures(); i++ {
		t, err := d.Texture3D(i)
		if err != nil {
			return err
		}
		cw.addParam(shadertext.TexType(lang, shadertext.Tex3D), t.Name)
		cw.addParam(samplerType, t.SamplerName)
	}
	for i := 0; i < d.NumTextures(); i++ {
		t, err := d.Texture(i)
		if err != nil {
			return err
		}
		cw.addParam(shadertext.TexType(lang, t.Dimensions()), t.Name)
		cw.addParam(samplerType, t.SamplerName)
	}
	if shadertext.HasClassWrapper(lang) {
		cw.addToHeader(shadertext.ClassWrapperHeader(lang, classWrapperName, cw.params) + "\n")
		cw.addToFooter("\n" + shadertext.ClassWrapperFooter(lang, classWrapperName, cw.params, d.state.FunctionName))
	}
	if d.wrapper == nil {
		d.wrapper = cw
	} else {
		*d.wrapper = *cw
	}
	return nil
}

// programAdapter encloses the fragments in a complete shader declaration
// preceded by the operator overloads the language lacks.
type programAdapter struct{}

func (programAdapter) preprocess(d *ShaderDesc, frag *fragments) error {
	fn := d.state.FunctionName
	frag.Declarations = osllib.Preamble() + osllib.ShaderOpen(fn) + frag.Declarations
	frag.FunctionFooter += osllib.ShaderClose(fn)
	return nil
}
