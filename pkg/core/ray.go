package core

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray. The direction is expected to be unit length.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayToward creates a ray from origin aimed at target
func NewRayToward(origin, target Vec3) (Ray, error) {
	direction, err := target.Subtract(origin).Normalize()
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: origin, Direction: direction}, nil
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Reflected returns the mirror ray leaving point about normal. The point is
// used as is; callers offset it with StepAway first. It reports false when
// the ray direction does not meet the surface from the front.
func (r Ray) Reflected(point, normal Vec3) (Ray, bool) {
	direction, ok := r.Direction.Reflect(normal)
	if !ok {
		return Ray{}, false
	}
	return Ray{Origin: point, Direction: direction}, true
}
