package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/lights"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// SphereDescriptor is a sphere as written in a scene file
type SphereDescriptor struct {
	Center     [3]float32
	Radius     float32
	Color      [3]uint8
	Diffuse    *float32 // optional normal jitter
	Reflection *float32 // optional mirror weight
}

// LightDescriptor is a point light as written in a scene file
type LightDescriptor struct {
	Origin [3]float32
}

// Description lists everything needed to build a Scene
type Description struct {
	Spheres []SphereDescriptor
	Lights  []LightDescriptor
}

// Material returns the material described by the sphere
func (d SphereDescriptor) Material() material.Material {
	mat := material.NewMatte(core.NewColorFromArray(d.Color))
	if d.Diffuse != nil {
		mat.Diffuse = *d.Diffuse
	}
	if d.Reflection != nil {
		mat.Reflectivity = *d.Reflection
	}
	return mat
}

// New builds a scene from a description. Values are taken as they are:
// overlapping spheres or non-positive radii are not rejected.
func New(desc Description, opts ...Option) *Scene {
	s := NewEmpty(opts...)

	for _, sphere := range desc.Spheres {
		s.AddSphere(core.NewVec3FromArray(sphere.Center), sphere.Radius, sphere.Material())
	}

	for _, light := range desc.Lights {
		s.AddLight(lights.NewPointLight(core.NewVec3FromArray(light.Origin)))
	}

	return s
}
