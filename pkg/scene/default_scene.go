package scene

import (
	"fmt"
	"sort"
)

// CameraDescriptor positions the camera: where it is, where it looks and
// which way is up
type CameraDescriptor struct {
	Origin [3]float32
	View   [3]float32
	Up     [3]float32
}

// Preset is a complete built-in render: scene, camera and image size
type Preset struct {
	Name   string
	Width  int
	Height int
	Camera CameraDescriptor
	Scene  Description
}

type presetEntry struct {
	title       string
	description string
	build       func() Preset
}

var presets = map[string]presetEntry{
	"default": {"Default", "Matte, rough and mirror spheres on a ground sphere", NewDefaultScene},
	"mirrors": {"Mirrors", "Two facing mirrors around a matte sphere", NewMirrorScene},
	"grid":    {"Sphere Grid", "A grid of colored matte, rough and mirror spheres", NewSphereGridScene},
}

// PresetNames returns the names of the built-in scenes, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPreset returns the built-in scene with the given name
func NewPreset(name string) (Preset, error) {
	entry, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown scene %q", name)
	}
	return entry.build(), nil
}

func float32Ptr(v float32) *float32 {
	return &v
}

// NewDefaultScene creates a default scene with a matte, a rough and a mirror
// sphere resting on a large ground sphere
func NewDefaultScene() Preset {
	return Preset{
		Name:   "default",
		Width:  640,
		Height: 480,
		Camera: CameraDescriptor{
			Origin: [3]float32{0, 1, 10},
			View:   [3]float32{0, -0.1, -1},
			Up:     [3]float32{0, 1, 0},
		},
		Scene: Description{
			Spheres: []SphereDescriptor{
				// ground
				{Center: [3]float32{0, -1002, 0}, Radius: 1000, Color: [3]uint8{200, 200, 200}},
				{Center: [3]float32{0, 0, 0}, Radius: 2, Color: [3]uint8{255, 60, 40}},
				{Center: [3]float32{-3.5, -1, 1}, Radius: 1, Color: [3]uint8{60, 220, 90}, Diffuse: float32Ptr(0.3)},
				{Center: [3]float32{3.5, -0.5, -1}, Radius: 1.5, Color: [3]uint8{80, 80, 120}, Reflection: float32Ptr(0.7)},
			},
			Lights: []LightDescriptor{
				{Origin: [3]float32{2, 3, 4}},
				{Origin: [3]float32{-4, 2, 3}},
			},
		},
	}
}

// NewMirrorScene creates two facing mirrors with a matte sphere between
// them, showing the bounce limit
func NewMirrorScene() Preset {
	return Preset{
		Name:   "mirrors",
		Width:  500,
		Height: 500,
		Camera: CameraDescriptor{
			Origin: [3]float32{0, 0.5, 8},
			View:   [3]float32{0, 0, -1},
			Up:     [3]float32{0, 1, 0},
		},
		Scene: Description{
			Spheres: []SphereDescriptor{
				{Center: [3]float32{-3, 0, 0}, Radius: 1.5, Color: [3]uint8{120, 120, 160}, Reflection: float32Ptr(0.9)},
				{Center: [3]float32{3, 0, 0}, Radius: 1.5, Color: [3]uint8{160, 120, 120}, Reflection: float32Ptr(0.9)},
				{Center: [3]float32{0, 0, -3}, Radius: 1, Color: [3]uint8{250, 210, 60}, Diffuse: float32Ptr(0.1)},
			},
			Lights: []LightDescriptor{
				{Origin: [3]float32{0, 3, 2}},
			},
		},
	}
}
