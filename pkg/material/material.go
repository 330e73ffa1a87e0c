package material

import (
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Material describes how a surface responds to light: a diffuse base color,
// an optional normal jitter for rough surfaces and an optional mirror term.
// Zero Diffuse or zero Reflectivity means the feature is off.
type Material struct {
	BaseColor    core.Color
	Diffuse      float32 // jitter coefficient applied to the shading normal
	Reflectivity float32 // weight of the mirror bounce, usually in [0, 1]
}

// NewMatte creates a plain diffuse material
func NewMatte(base core.Color) Material {
	return Material{BaseColor: base}
}

// NewRough creates a diffuse material whose shading normal is jittered
func NewRough(base core.Color, diffuse float32) Material {
	return Material{BaseColor: base, Diffuse: diffuse}
}

// NewMirror creates a material blending its base color with reflections
func NewMirror(base core.Color, reflectivity float32) Material {
	return Material{BaseColor: base, Reflectivity: reflectivity}
}

// HasJitter reports whether the shading normal is perturbed
func (m Material) HasJitter() bool {
	return m.Diffuse != 0
}

// IsReflective reports whether reflected rays are traced
func (m Material) IsReflective() bool {
	return m.Reflectivity != 0
}

// ShadingNormal returns the normal used for lighting. With jitter enabled a
// fresh random offset is drawn on every call.
func (m Material) ShadingNormal(normal core.Vec3, random *rand.Rand) (core.Vec3, error) {
	if !m.HasJitter() {
		return normal, nil
	}
	jitter := core.RandomUnitScaled(random).Multiply(m.Diffuse)
	return normal.Add(jitter).Normalize()
}
