package gpushader

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gpushader/shadertext"
)

// PropertyType identifies a runtime adjustable shader parameter. A descriptor
// holds at most one property of each type.
type PropertyType uint8

const (
	PropertyExposure PropertyType = iota + 1
	PropertyContrast
	PropertyGamma
	PropertyGradingPrimary
	PropertyGradingRGBCurve
	PropertyGradingTone
	propertyEnd
)

var propertyNames = [propertyEnd]string{
	PropertyExposure:        "exposure",
	PropertyContrast:        "contrast",
	PropertyGamma:           "gamma",
	PropertyGradingPrimary:  "grading_primary",
	PropertyGradingRGBCurve: "grading_rgbcurve",
	PropertyGradingTone:     "grading_tone",
}

func (pt PropertyType) String() string {
	if !pt.IsValid() {
		return "PropertyType(" + strconv.Itoa(int(pt)) + ")"
	}
	return propertyNames[pt]
}

// IsValid reports whether pt is a known property type.
func (pt PropertyType) IsValid() bool { return pt > 0 && pt < propertyEnd }

// IsScalar reports whether properties of this type hold a single float.
// The remaining types hold an RGB triple.
func (pt PropertyType) IsScalar() bool {
	return pt == PropertyExposure || pt == PropertyContrast || pt == PropertyGamma
}

// ParsePropertyType returns the property type named s, i.e: "exposure".
func ParsePropertyType(s string) (PropertyType, error) {
	for i := PropertyType(1); i < propertyEnd; i++ {
		if propertyNames[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dynamic property type %q", ErrConfiguration, s)
}

const minGamma = 1e-3

// DynamicProperty is a shader parameter whose value can change after the shader
// text is generated. The shader reads it from a uniform so no rebuild is needed.
type DynamicProperty struct {
	typ    PropertyType
	scalar float32
	rgb    ms3.Vec
}

// NewScalarProperty returns a property of a scalar type holding v.
func NewScalarProperty(typ PropertyType, v float32) (*DynamicProperty, error) {
	if !typ.IsScalar() {
		return nil, fmt.Errorf("%w: %s is not a scalar dynamic property", ErrConfiguration, typ)
	}
	return &DynamicProperty{typ: typ, scalar: v}, nil
}

// NewRGBProperty returns a property of a grading type holding rgb.
func NewRGBProperty(typ PropertyType, rgb ms3.Vec) (*DynamicProperty, error) {
	if !typ.IsValid() || typ.IsScalar() {
		return nil, fmt.Errorf("%w: %s is not an RGB dynamic property", ErrConfiguration, typ)
	}
	return &DynamicProperty{typ: typ, rgb: rgb}, nil
}

// Type returns the property type.
func (dp *DynamicProperty) Type() PropertyType { return dp.typ }

// Value returns the scalar value. Gamma values are clamped away from zero.
func (dp *DynamicProperty) Value() float32 {
	if dp.typ == PropertyGamma {
		return math32.Max(dp.scalar, minGamma)
	}
	return dp.scalar
}

// SetValue sets the scalar value.
func (dp *DynamicProperty) SetValue(v float32) { dp.scalar = v }

// RGB returns the RGB value of grading properties.
func (dp *DynamicProperty) RGB() ms3.Vec { return dp.rgb }

// SetRGB sets the RGB value of grading properties.
func (dp *DynamicProperty) SetRGB(rgb ms3.Vec) { dp.rgb = rgb }

// Gain returns the linear multiplier of an exposure property, 2^stops.
// Other types return their scalar value.
func (dp *DynamicProperty) Gain() float32 {
	if dp.typ == PropertyExposure {
		return math32.Pow(2, dp.scalar)
	}
	return dp.Value()
}

func (dp *DynamicProperty) valueKind() shadertext.ValueKind {
	if dp.typ.IsScalar() {
		return shadertext.KindFloat
	}
	return shadertext.KindVec3
}

// propertyRegistry holds the dynamic properties of a descriptor in registration order.
type propertyRegistry struct {
	props []*DynamicProperty
}

func (r *propertyRegistry) has(typ PropertyType) bool {
	for _, p := range r.props {
		if p.typ == typ {
			return true
		}
	}
	return false
}

func (r *propertyRegistry) add(p *DynamicProperty) error {
	if p == nil {
		return ErrNilProperty
	}
	if r.has(p.typ) {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, p.typ)
	}
	r.props = append(r.props, p)
	return nil
}

func (r *propertyRegistry) at(i int) (*DynamicProperty, error) {
	if i < 0 || i >= len(r.props) {
		return nil, fmt.Errorf("%w: dynamic property index %d where size is %d", ErrIndexOutOfRange, i, len(r.props))
	}
	return r.props[i], nil
}

func (r *propertyRegistry) byType(typ PropertyType) (*DynamicProperty, error) {
	for _, p := range r.props {
		if p.typ == typ {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, typ)
}
