package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Sphere represents a sphere shape. The radius is kept squared since the
// intersection test only ever needs r².
type Sphere struct {
	Center        core.Vec3
	RadiusSquared float32
}

// NewSphere creates a new sphere. Radius is not validated: a negative radius
// behaves like its absolute value and a zero radius is never hit.
func NewSphere(center core.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center:        center,
		RadiusSquared: radius * radius,
	}
}

// Intersect tests the ray against the sphere using the projection of the
// center onto the ray.
//
// Spheres whose center projects behind or onto the ray origin are reported as
// missed even when the origin is inside the sphere. Secondary rays start just
// outside the surface they leave, so this only changes renders where the camera
// itself sits inside a sphere past its center.
func (s *Sphere) Intersect(ray core.Ray) Roots {
	if s.RadiusSquared == 0 {
		return NoRoots
	}

	oc := s.Center.Subtract(ray.Origin)
	proj := oc.Dot(ray.Direction)
	if proj <= 0 {
		return NoRoots
	}

	// squared distance from the center to the ray line
	perpSq := oc.Cross(ray.Direction).LengthSquared()

	k := s.RadiusSquared - perpSq
	switch {
	case k < 0:
		return NoRoots
	case k == 0:
		return OneRoot(proj)
	}

	halfChord := math32.Sqrt(k)
	return TwoRoots(proj-halfChord, proj+halfChord)
}

// NormalAt returns the outward unit normal at a point on the sphere
func (s *Sphere) NormalAt(point core.Vec3) (core.Vec3, error) {
	return point.Subtract(s.Center).Normalize()
}
