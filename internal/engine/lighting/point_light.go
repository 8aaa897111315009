// Package lighting provides the point light uniform block.
package lighting

import (
	"errors"
	"fmt"
)

// ErrInvalidLight is returned by Validate for out-of-range parameters.
var ErrInvalidLight = errors.New("invalid light")

// PointLight is the light uniform block. Values are static defaults until the
// user changes them; nothing mutates them per frame.
type PointLight struct {
	Position [4]float32 // World position; W is ignored, there is no directional branch
	Color    [4]float32 // RGBA, only RGB contributes

	// Intensity is carried for forward compatibility but not applied by the
	// lighting formula.
	Intensity float32

	AmbientStrength  float32 // [0,1]
	DiffuseStrength  float32 // [0,1]
	SpecularStrength float32 // [0,1]
	Shininess        float32 // Specular exponent, > 0
}

// DefaultPointLight returns the light used at startup: white, in front of the
// origin on +Z.
func DefaultPointLight() PointLight {
	return PointLight{
		Position:         [4]float32{0, 0, 5, 1},
		Color:            [4]float32{1, 1, 1, 1},
		Intensity:        1.0,
		AmbientStrength:  0.1,
		DiffuseStrength:  0.7,
		SpecularStrength: 0.3,
		Shininess:        32.0,
	}
}

// Validate checks the strength ranges and the shininess exponent.
func (l PointLight) Validate() error {
	strengths := []struct {
		name  string
		value float32
	}{
		{"ambient_strength", l.AmbientStrength},
		{"diffuse_strength", l.DiffuseStrength},
		{"specular_strength", l.SpecularStrength},
	}
	for _, s := range strengths {
		if s.value < 0 || s.value > 1 {
			return fmt.Errorf("%w: %s %v outside [0,1]", ErrInvalidLight, s.name, s.value)
		}
	}
	if l.Shininess <= 0 {
		return fmt.Errorf("%w: shininess %v must be > 0", ErrInvalidLight, l.Shininess)
	}
	return nil
}

// Std140Size is the byte size of the packed light block.
const Std140Size = Std140Floats * 4

// Std140Floats is the float count of the packed light block.
const Std140Floats = 16

// Std140 packs the light for a std140 uniform block:
//
//	layout(std140) uniform Light {
//	    vec4  position;   // offset 0
//	    vec4  color;      // offset 16
//	    float intensity;  // offset 32
//	    float ambient;    // offset 36
//	    float diffuse;    // offset 40
//	    float specular;   // offset 44
//	    float shininess;  // offset 48, padded to 64
//	};
func (l PointLight) Std140() [Std140Floats]float32 {
	return [Std140Floats]float32{
		l.Position[0], l.Position[1], l.Position[2], l.Position[3],
		l.Color[0], l.Color[1], l.Color[2], l.Color[3],
		l.Intensity, l.AmbientStrength, l.DiffuseStrength, l.SpecularStrength,
		l.Shininess, 0, 0, 0,
	}
}
