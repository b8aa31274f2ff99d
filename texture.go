package gpushader

import (
	"fmt"
	"strconv"

	"github.com/soypat/gpushader/shadertext"
)

// Channel is the channel layout of a 1D/2D texture.
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelRGB
)

func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelRGB:
		return "rgb"
	}
	return "Channel(" + strconv.Itoa(int(c)) + ")"
}

// ParseChannel returns the channel named s ("red" or "rgb").
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "red", "":
		return ChannelRed, nil
	case "rgb":
		return ChannelRGB, nil
	}
	return 0, fmt.Errorf("%w: unknown texture channel %q", ErrConfiguration, s)
}

// Interpolation is the sampling filter used on a texture.
type Interpolation uint8

const (
	InterpDefault Interpolation = iota
	InterpNearest
	InterpLinear
	InterpTetrahedral
	InterpCubic
	InterpBest
	interpEnd
)

var interpNames = [interpEnd]string{
	InterpDefault:     "default",
	InterpNearest:     "nearest",
	InterpLinear:      "linear",
	InterpTetrahedral: "tetrahedral",
	InterpCubic:       "cubic",
	InterpBest:        "best",
}

func (in Interpolation) String() string {
	if in >= interpEnd {
		return "Interpolation(" + strconv.Itoa(int(in)) + ")"
	}
	return interpNames[in]
}

// ParseInterpolation returns the interpolation named s. The empty string is [InterpDefault].
func ParseInterpolation(s string) (Interpolation, error) {
	if s == "" {
		return InterpDefault, nil
	}
	for i := Interpolation(0); i < interpEnd; i++ {
		if interpNames[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", ErrConfiguration, s)
}

// Texture is a 1D or 2D lookup table bound to the shader.
type Texture struct {
	Name          string
	SamplerName   string
	Width         uint32
	Height        uint32
	Channel       Channel
	Interpolation Interpolation
	Values        []float32
}

// Dimensions returns [shadertext.Tex1D] for single row textures and [shadertext.Tex2D] otherwise.
func (t Texture) Dimensions() shadertext.Dimensions {
	if t.Height > 1 {
		return shadertext.Tex2D
	}
	return shadertext.Tex1D
}

// Texture3D is a cubic lookup table bound to the shader.
type Texture3D struct {
	Name          string
	SamplerName   string
	EdgeLen       uint32
	Interpolation Interpolation
	Values        []float32
}

// TextureSource enumerates the textures a color transform compiler registered for a shader.
type TextureSource interface {
	NumTextures() int
	Texture(i int) (Texture, error)
	Num3DTextures() int
	Texture3D(i int) (Texture3D, error)
}

var _ TextureSource = (*ShaderDesc)(nil) // Interface implementation compile-time check.

// AddTexture registers a 1D/2D texture. An empty sampler name defaults to [shadertext.SamplerName].
func (d *ShaderDesc) AddTexture(t Texture) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty texture name", ErrConfiguration)
	} else if t.Width == 0 {
		return fmt.Errorf("%w: texture %q has zero width", ErrConfiguration, t.Name)
	}
	if t.Height == 0 {
		t.Height = 1
	}
	if t.SamplerName == "" {
		t.SamplerName = shadertext.SamplerName(t.Name)
	}
	d.state.Textures = append(d.state.Textures, t)
	return nil
}

// Add3DTexture registers a 3D texture. An empty sampler name defaults to [shadertext.SamplerName].
func (d *ShaderDesc) Add3DTexture(t Texture3D) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty 3D texture name", ErrConfiguration)
	} else if t.EdgeLen == 0 {
		return fmt.Errorf("%w: 3D texture %q has zero edge length", ErrConfiguration, t.Name)
	}
	if t.SamplerName == "" {
		t.SamplerName = shadertext.SamplerName(t.Name)
	}
	d.state.Textures3D = append(d.state.Textures3D, t)
	return nil
}

// NumTextures returns the number of 1D/2D textures registered.
func (d *ShaderDesc) NumTextures() int { return len(d.state.Textures) }

// Texture returns the i'th registered 1D/2D texture.
func (d *ShaderDesc) Texture(i int) (Texture, error) {
	if i < 0 || i >= len(d.state.Textures) {
		return Texture{}, fmt.Errorf("%w: texture index %d where size is %d", ErrIndexOutOfRange, i, len(d.state.Textures))
	}
	return d.state.Textures[i], nil
}

// Num3DTextures returns the number of 3D textures registered.
func (d *ShaderDesc) Num3DTextures() int { return len(d.state.Textures3D) }

// Texture3D returns the i'th registered 3D texture.
func (d *ShaderDesc) Texture3D(i int) (Texture3D, error) {
	if i < 0 || i >= len(d.state.Textures3D) {
		return Texture3D{}, fmt.Errorf("%w: 3D texture index %d where size is %d", ErrIndexOutOfRange, i, len(d.state.Textures3D))
	}
	return d.state.Textures3D[i], nil
}
