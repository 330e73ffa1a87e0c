package geometry

import "github.com/df07/go-sphere-raytracer/pkg/core"

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Intersect returns the ray parameters where the ray crosses the surface
	Intersect(ray core.Ray) Roots
	// NormalAt returns the outward unit normal at a point on the surface
	NormalAt(point core.Vec3) (core.Vec3, error)
}

// Roots holds zero, one or two intersection parameters along a ray.
// When Count is 2, Near <= Far.
type Roots struct {
	Count int
	Near  float32
	Far   float32
}

// NoRoots is the empty intersection
var NoRoots = Roots{}

// OneRoot creates a tangent intersection
func OneRoot(t float32) Roots {
	return Roots{Count: 1, Near: t, Far: t}
}

// TwoRoots creates a crossing intersection, ordering the roots
func TwoRoots(t0, t1 float32) Roots {
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	return Roots{Count: 2, Near: t0, Far: t1}
}

// Nearest returns the closest root that is not behind the ray origin.
// Negative roots are discarded; if both roots survive the smaller wins.
func (r Roots) Nearest() (float32, bool) {
	switch r.Count {
	case 1:
		if r.Near < 0 {
			return 0, false
		}
		return r.Near, true
	case 2:
		if r.Near >= 0 {
			return r.Near, true
		}
		if r.Far >= 0 {
			return r.Far, true
		}
	}
	return 0, false
}

// NearestPositive is like Nearest but also drops a root exactly at the ray
// origin, which is what a surface the ray starts on produces
func (r Roots) NearestPositive() (float32, bool) {
	switch r.Count {
	case 1:
		if r.Near > 0 {
			return r.Near, true
		}
	case 2:
		if r.Near > 0 {
			return r.Near, true
		}
		if r.Far > 0 {
			return r.Far, true
		}
	}
	return 0, false
}
