package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// MaxReflectDepth is the default number of mirror bounces traced per ray
const MaxReflectDepth = 5

// GlareTolerance is how far below 1 the cosine between a ray and the
// direction to a light may fall for the light itself to be drawn
const GlareTolerance float32 = 1e-5

// Object pairs a shape with its appearance
type Object struct {
	Shape    geometry.Shape
	Material material.Material
}

// Hit describes the nearest intersection of a ray with the scene. The
// material is copied out of the object so it can outlive the lookup.
type Hit struct {
	Point    core.Vec3
	Normal   core.Vec3 // geometric outward normal
	Material material.Material
	Distance float32
	Index    int // position of the object in the scene
}

// Scene contains all objects and lights of a render. It is not modified while
// shading, so a built scene can be shared freely.
type Scene struct {
	objects         []Object
	lights          []lights.Light
	maxReflectDepth int
}

// Option configures a Scene
type Option func(*Scene)

// WithMaxReflectDepth overrides the number of mirror bounces (default MaxReflectDepth)
func WithMaxReflectDepth(depth int) Option {
	return func(s *Scene) {
		if depth >= 0 {
			s.maxReflectDepth = depth
		}
	}
}

// NewEmpty creates a scene without objects or lights
func NewEmpty(opts ...Option) *Scene {
	s := &Scene{
		objects:         make([]Object, 0),
		lights:          make([]lights.Light, 0),
		maxReflectDepth: MaxReflectDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddObject appends a shape with its material
func (s *Scene) AddObject(shape geometry.Shape, mat material.Material) {
	s.objects = append(s.objects, Object{Shape: shape, Material: mat})
}

// AddSphere appends a sphere with its material
func (s *Scene) AddSphere(center core.Vec3, radius float32, mat material.Material) {
	s.AddObject(geometry.NewSphere(center, radius), mat)
}

// AddLight appends a light
func (s *Scene) AddLight(light lights.Light) {
	s.lights = append(s.lights, light)
}

// Objects returns the objects in insertion order
func (s *Scene) Objects() []Object {
	return s.objects
}

// Lights returns the lights in insertion order
func (s *Scene) Lights() []lights.Light {
	return s.lights
}

// MaxReflectDepth returns the configured bounce limit
func (s *Scene) MaxReflectDepth() int {
	return s.maxReflectDepth
}

// nearest scans every object and returns the index and distance of the
// closest strictly positive hit. Ties keep the earlier object.
func (s *Scene) nearest(ray core.Ray) (int, float32, bool) {
	index := -1
	var closest float32

	for i, obj := range s.objects {
		distance, ok := obj.Shape.Intersect(ray).NearestPositive()
		if !ok {
			continue
		}
		if index < 0 || distance < closest {
			index = i
			closest = distance
		}
	}

	return index, closest, index >= 0
}

// NearestObject returns the closest object hit by the ray, if any
func (s *Scene) NearestObject(ray core.Ray) (Hit, bool, error) {
	index, distance, ok := s.nearest(ray)
	if !ok {
		return Hit{}, false, nil
	}

	obj := s.objects[index]
	point := ray.At(distance)
	normal, err := obj.Shape.NormalAt(point)
	if err != nil {
		return Hit{}, false, fmt.Errorf("normal of object %d at %v: %w", index, point, err)
	}

	return Hit{
		Point:    point,
		Normal:   normal,
		Material: obj.Material,
		Distance: distance,
		Index:    index,
	}, true, nil
}

// Shade returns the color seen along a camera ray: the saturating sum of the
// contribution of every light
func (s *Scene) Shade(ray core.Ray, random *rand.Rand) (core.Color, error) {
	color := core.Black
	for _, light := range s.lights {
		contribution, err := s.ShadeForLight(ray, light, 0, random)
		if err != nil {
			return core.Black, err
		}
		color = color.Add(contribution)
	}
	return color, nil
}

// ShadeForLight returns what a single light contributes along the ray,
// following mirror bounces until the depth limit
func (s *Scene) ShadeForLight(ray core.Ray, light lights.Light, depth int, random *rand.Rand) (core.Color, error) {
	hit, ok, err := s.NearestObject(ray)
	if err != nil || !ok {
		return core.Black, err
	}

	normal, err := hit.Material.ShadingNormal(hit.Normal, random)
	if err != nil {
		return core.Black, fmt.Errorf("shading normal of object %d: %w", hit.Index, err)
	}
	origin := hit.Point.StepAway(normal)

	shadowed, err := s.occluded(origin, light.Position())
	if err != nil {
		return core.Black, fmt.Errorf("shadow ray from object %d: %w", hit.Index, err)
	}
	if shadowed {
		return s.reflect(ray, hit, normal, origin, light, depth, core.Black, random)
	}

	if glare, ok := glareFor(ray, light, hit.Distance); ok {
		return glare, nil
	}

	intensity, err := light.IntensityAt(hit.Point, normal)
	if err != nil {
		return core.Black, fmt.Errorf("light at %v on object %d: %w", light.Position(), hit.Index, err)
	}
	// falloff is 1/d, not 1/d²
	distance := hit.Point.Distance(light.Position())
	color := hit.Material.BaseColor.Scale(intensity / distance)

	return s.reflect(ray, hit, normal, origin, light, depth, color, random)
}

// reflect adds the mirror bounce of a reflective hit on top of base. The
// blend is additive, so bright reflections saturate instead of averaging.
func (s *Scene) reflect(ray core.Ray, hit Hit, normal, origin core.Vec3, light lights.Light,
	depth int, base core.Color, random *rand.Rand) (core.Color, error) {
	if !hit.Material.IsReflective() || depth >= s.maxReflectDepth {
		return base, nil
	}

	reflected, ok := ray.Reflected(origin, normal)
	if !ok {
		return base, nil
	}

	bounce, err := s.ShadeForLight(reflected, light, depth+1, random)
	if err != nil {
		return core.Black, err
	}
	return base.Add(bounce.Scale(hit.Material.Reflectivity)), nil
}

// occluded reports whether any object lies between origin and target
func (s *Scene) occluded(origin, target core.Vec3) (bool, error) {
	toTarget := target.Subtract(origin)
	direction, err := toTarget.Normalize()
	if err != nil {
		return false, err
	}

	_, distance, ok := s.nearest(core.NewRay(origin, direction))
	return ok && distance <= toTarget.Length(), nil
}

// glareFor reports whether the ray looks straight at the light and the light
// sits in front of the surface the ray hits. The returned color is white
// dimmed by the alignment.
func glareFor(ray core.Ray, light lights.Light, hitDistance float32) (core.Color, bool) {
	toLight := light.Position().Subtract(ray.Origin)
	distance := toLight.Length()
	if distance == 0 || distance >= hitDistance {
		return core.Black, false
	}

	align := ray.Direction.Dot(toLight.Multiply(1 / distance))
	if align < 1-GlareTolerance {
		return core.Black, false
	}
	return core.White.Scale(align), true
}
