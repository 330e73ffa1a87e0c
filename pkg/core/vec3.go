package core

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
)

// Epsilon is the distance secondary ray origins are pushed off a surface.
// It is 100 float32 machine epsilons.
const Epsilon float32 = 100 * 0x1p-23

// Vec3 represents a 3D vector, used both as a point and as a direction
type Vec3 struct {
	X, Y, Z float32
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVec3FromArray creates a Vec3 from an [x, y, z] array as found in scene files
func NewVec3FromArray(xyz [3]float32) Vec3 {
	return Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float32) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Distance returns the distance between two points
func (v Vec3) Distance(other Vec3) float32 {
	return other.Subtract(v).Length()
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	return !math32.IsNaN(v.X) && !math32.IsInf(v.X, 0) &&
		!math32.IsNaN(v.Y) && !math32.IsInf(v.Y, 0) &&
		!math32.IsNaN(v.Z) && !math32.IsInf(v.Z, 0)
}

// Normalize returns a unit vector in the same direction.
// A zero or non-finite magnitude yields ErrDegenerateVector.
func (v Vec3) Normalize() (Vec3, error) {
	if !v.IsFinite() {
		return Vec3{}, fmt.Errorf("normalize %v: %w", v, ErrDegenerateVector)
	}
	// finite components can still overflow the squared length
	length := v.Length()
	if length == 0 || math32.IsInf(length, 0) {
		return Vec3{}, fmt.Errorf("normalize %v: %w", v, ErrDegenerateVector)
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}, nil
}

// Reflect mirrors v about the given normal. It reports false when v is not
// moving into the surface (dot(v, normal) >= 0).
func (v Vec3) Reflect(normal Vec3) (Vec3, bool) {
	d := v.Dot(normal)
	if d >= 0 {
		return Vec3{}, false
	}
	return v.Subtract(normal.Multiply(2 * d)), true
}

// StepAway offsets a surface point along the normal so rays leaving it do not
// hit the same surface again through rounding.
func (v Vec3) StepAway(normal Vec3) Vec3 {
	return v.Add(normal.Multiply(Epsilon))
}

// RandomUnitScaled returns a random direction scaled by a random length in [0, 1).
//
// Components are drawn uniformly from [-1, 1) and normalized, so directions
// cluster toward the cube diagonals, and the independent length factor puts
// more mass near the origin than a uniform ball would. It is meant as cheap
// jitter for rough surfaces, not as an unbiased sample.
func RandomUnitScaled(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float32() - 1,
			Y: 2*random.Float32() - 1,
			Z: 2*random.Float32() - 1,
		}
		unit, err := p.Normalize()
		if err != nil {
			// all three components came out zero
			continue
		}
		return unit.Multiply(random.Float32())
	}
}

// String formats the vector for logs and error messages
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
