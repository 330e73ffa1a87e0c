package lights

import "github.com/df07/go-sphere-raytracer/pkg/core"

// LightType names a kind of light
type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light interface for emitters that contribute direct diffuse light
type Light interface {
	// Type reports the kind of light
	Type() LightType

	// Position returns the point the light is emitted from
	Position() core.Vec3

	// IntensityAt returns the unattenuated Lambertian cosine term for a surface
	// point with the given unit normal, clamped to zero for back-facing surfaces
	IntensityAt(point core.Vec3, normal core.Vec3) (float32, error)
}
