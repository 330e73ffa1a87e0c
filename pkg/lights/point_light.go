package lights

import "github.com/df07/go-sphere-raytracer/pkg/core"

// PointLight is an infinitely small emitter at a fixed position
type PointLight struct {
	Origin core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(origin core.Vec3) *PointLight {
	return &PointLight{Origin: origin}
}

// Type implements the Light interface
func (l *PointLight) Type() LightType {
	return LightTypePoint
}

// Position implements the Light interface
func (l *PointLight) Position() core.Vec3 {
	return l.Origin
}

// IntensityAt implements the Light interface. There is no distance falloff
// here; callers divide by the distance they measure.
func (l *PointLight) IntensityAt(point core.Vec3, normal core.Vec3) (float32, error) {
	toLight, err := l.Origin.Subtract(point).Normalize()
	if err != nil {
		return 0, err
	}

	intensity := toLight.Dot(normal)
	if intensity < 0 {
		return 0, nil
	}
	return intensity, nil
}
