package shaderaux

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gpushader"
	"github.com/soypat/gpushader/shadertext"
	"gopkg.in/yaml.v3"
)

// BuildFile describes a shader build: the target configuration, the fragments
// produced by a color transform compiler and the resources they use.
// It can be decoded from TOML or YAML.
type BuildFile struct {
	Language       string `toml:"language" yaml:"language"`
	UniqueID       string `toml:"unique_id" yaml:"unique_id"`
	FunctionName   string `toml:"function_name" yaml:"function_name"`
	ResourcePrefix string `toml:"resource_prefix" yaml:"resource_prefix"`
	PixelName      string `toml:"pixel_name" yaml:"pixel_name"`

	Fragments  Fragments     `toml:"fragments" yaml:"fragments"`
	Textures   []Texture     `toml:"textures" yaml:"textures"`
	Textures3D []Texture3D   `toml:"textures3d" yaml:"textures3d"`
	Properties []PropertyDef `toml:"properties" yaml:"properties"`
}

// Fragments are added to the descriptor in order, one call per element.
type Fragments struct {
	Declarations []string `toml:"declarations" yaml:"declarations"`
	Helpers      []string `toml:"helpers" yaml:"helpers"`
	Header       []string `toml:"header" yaml:"header"`
	Body         []string `toml:"body" yaml:"body"`
	Footer       []string `toml:"footer" yaml:"footer"`
}

type Texture struct {
	Name          string    `toml:"name" yaml:"name"`
	SamplerName   string    `toml:"sampler" yaml:"sampler"`
	Width         uint32    `toml:"width" yaml:"width"`
	Height        uint32    `toml:"height" yaml:"height"`
	Channel       string    `toml:"channel" yaml:"channel"`
	Interpolation string    `toml:"interpolation" yaml:"interpolation"`
	Values        []float32 `toml:"values" yaml:"values"`
}

type Texture3D struct {
	Name          string    `toml:"name" yaml:"name"`
	SamplerName   string    `toml:"sampler" yaml:"sampler"`
	EdgeLen       uint32    `toml:"edge" yaml:"edge"`
	Interpolation string    `toml:"interpolation" yaml:"interpolation"`
	Values        []float32 `toml:"values" yaml:"values"`
}

// PropertyDef defines a dynamic property. Scalar types read Value, grading types read RGB.
// When Uniform is set the property's uniform declaration is added to the shader.
type PropertyDef struct {
	Type    string    `toml:"type" yaml:"type"`
	Value   float32   `toml:"value" yaml:"value"`
	RGB     []float32 `toml:"rgb" yaml:"rgb"`
	Uniform bool      `toml:"uniform" yaml:"uniform"`
}

// Format is the encoding of a build file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the build file format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported build file extension %q", filepath.Ext(path))
}

// LoadBuildFile reads and decodes the build file at path.
func LoadBuildFile(path string) (*BuildFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return DecodeBuildFile(fp, format)
}

// DecodeBuildFile decodes a build file of the given format.
func DecodeBuildFile(r io.Reader, format Format) (*BuildFile, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	bf := new(BuildFile)
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(buf.Bytes(), bf)
	case FormatYAML:
		err = yaml.Unmarshal(buf.Bytes(), bf)
	default:
		return nil, fmt.Errorf("unknown build file format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s build file: %w", format, err)
	}
	return bf, nil
}

// Descriptor returns an unfinalized descriptor configured and fed as described by bf.
// Each texture and each uniform takes one resource index.
func (bf *BuildFile) Descriptor() (*gpushader.ShaderDesc, error) {
	d := gpushader.New()
	if bf.Language != "" {
		lang, err := shadertext.ParseLanguage(bf.Language)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", gpushader.ErrConfiguration, err)
		}
		if err := d.SetLanguage(lang); err != nil {
			return nil, err
		}
	}
	d.SetUniqueID(bf.UniqueID)
	if bf.FunctionName != "" {
		d.SetFunctionName(bf.FunctionName)
	}
	if bf.ResourcePrefix != "" {
		d.SetResourcePrefix(bf.ResourcePrefix)
	}
	if bf.PixelName != "" {
		d.SetPixelName(bf.PixelName)
	}

	for _, t := range bf.Textures3D {
		interp, err := gpushader.ParseInterpolation(t.Interpolation)
		if err != nil {
			return nil, err
		}
		err = d.Add3DTexture(gpushader.Texture3D{
			Name:          t.Name,
			SamplerName:   t.SamplerName,
			EdgeLen:       t.EdgeLen,
			Interpolation: interp,
			Values:        t.Values,
		})
		if err != nil {
			return nil, err
		}
		d.NextResourceIndex()
	}
	for _, t := range bf.Textures {
		interp, err := gpushader.ParseInterpolation(t.Interpolation)
		if err != nil {
			return nil, err
		}
		channel, err := gpushader.ParseChannel(t.Channel)
		if err != nil {
			return nil, err
		}
		err = d.AddTexture(gpushader.Texture{
			Name:          t.Name,
			SamplerName:   t.SamplerName,
			Width:         t.Width,
			Height:        t.Height,
			Channel:       channel,
			Interpolation: interp,
			Values:        t.Values,
		})
		if err != nil {
			return nil, err
		}
		d.NextResourceIndex()
	}

	for _, def := range bf.Properties {
		p, err := def.property()
		if err != nil {
			return nil, err
		}
		if !def.Uniform {
			err = d.AddDynamicProperty(p)
		} else if _, err = d.AddDynamicUniform(p); err == nil {
			d.NextResourceIndex()
		}
		if err != nil {
			return nil, err
		}
	}

	frag := &bf.Fragments
	for _, code := range frag.Declarations {
		d.AddToDeclareShaderCode(code)
	}
	for _, code := range frag.Helpers {
		d.AddToHelperShaderCode(code)
	}
	for _, code := range frag.Header {
		d.AddToFunctionHeaderShaderCode(code)
	}
	for _, code := range frag.Body {
		d.AddToFunctionShaderCode(code)
	}
	for _, code := range frag.Footer {
		d.AddToFunctionFooterShaderCode(code)
	}
	return d, nil
}

func (def PropertyDef) property() (*gpushader.DynamicProperty, error) {
	typ, err := gpushader.ParsePropertyType(def.Type)
	if err != nil {
		return nil, err
	}
	if typ.IsScalar() {
		return gpushader.NewScalarProperty(typ, def.Value)
	}
	if len(def.RGB) != 3 {
		return nil, fmt.Errorf("%w: %s property needs 3 rgb components, got %d", gpushader.ErrConfiguration, typ, len(def.RGB))
	}
	return gpushader.NewRGBProperty(typ, ms3.Vec{X: def.RGB[0], Y: def.RGB[1], Z: def.RGB[2]})
}
