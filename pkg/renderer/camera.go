package renderer

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// CameraConfig contains camera positioning parameters
type CameraConfig struct {
	Origin core.Vec3 // Camera position
	View   core.Vec3 // Viewing direction, need not be unit length
	Up     core.Vec3 // Approximate up direction
}

// Camera holds an orthonormal basis: view points into the scene, tau to the
// right and up completes the frame
type Camera struct {
	origin core.Vec3
	view   core.Vec3
	tau    core.Vec3
	up     core.Vec3
}

// NewCamera builds the camera basis. Up is re-derived from view and tau, so
// it only has to be roughly perpendicular to view; parallel vectors fail.
func NewCamera(config CameraConfig) (*Camera, error) {
	view, err := config.View.Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera view: %w", err)
	}
	up, err := config.Up.Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera up: %w", err)
	}
	tau, err := view.Cross(up).Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera view %v is parallel to up %v: %w", config.View, config.Up, err)
	}
	up, err = tau.Cross(view).Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera up: %w", err)
	}

	return &Camera{
		origin: config.Origin,
		view:   view,
		tau:    tau,
		up:     up,
	}, nil
}

// Origin returns the camera position
func (c *Camera) Origin() core.Vec3 { return c.origin }

// Basis returns the view, right and up unit vectors
func (c *Camera) Basis() (view, tau, up core.Vec3) { return c.view, c.tau, c.up }

// Canvas is a square grid of sample points on a unit-wide window placed one
// unit in front of the camera
type Canvas struct {
	camera     *Camera
	resolution int
	step       float32
}

// NewCanvas creates a canvas with resolution samples per side
func NewCanvas(camera *Camera, resolution int) *Canvas {
	return &Canvas{
		camera:     camera,
		resolution: resolution,
		step:       1 / float32(resolution),
	}
}

// Resolution returns the number of samples per side
func (c *Canvas) Resolution() int { return c.resolution }

// GetRay returns the ray through the center of sample (i, j). Column i grows
// to the right and row j grows downward.
func (c *Canvas) GetRay(i, j int) (core.Ray, error) {
	h := -0.5 + (float32(i)*c.step + c.step*0.5)
	v := 0.5 - (float32(j)*c.step + c.step*0.5)

	direction := c.camera.view.
		Add(c.camera.tau.Multiply(h)).
		Add(c.camera.up.Multiply(v))

	unit, err := direction.Normalize()
	if err != nil {
		return core.Ray{}, err
	}
	return core.NewRay(c.camera.origin, unit), nil
}
