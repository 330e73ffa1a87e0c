package scene

import (
	"math"
)

// oklchToRGB converts OKLCH color values to 8-bit RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) [3]uint8 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return [3]uint8{toByte(r), toByte(g), toByte(blue)}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// GridSize is the number of spheres along each side of the grid scene
const GridSize = 5

// NewSphereGridScene creates a GridSize x GridSize grid of spheres with hues
// sweeping across the grid. Every other sphere is a mirror and the last row
// is rough.
func NewSphereGridScene() Preset {
	const spacing = 2.2
	const radius = 0.9

	spheres := make([]SphereDescriptor, 0, GridSize*GridSize+1)
	// ground
	spheres = append(spheres, SphereDescriptor{
		Center: [3]float32{0, -501, 0},
		Radius: 500,
		Color:  [3]uint8{180, 180, 190},
	})

	offset := spacing * float64(GridSize-1) / 2
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			index := row*GridSize + col
			hue := 360.0 * float64(index) / float64(GridSize*GridSize)

			sphere := SphereDescriptor{
				Center: [3]float32{
					float32(float64(col)*spacing - offset),
					0,
					float32(-float64(row) * spacing),
				},
				Radius: radius,
				Color:  oklchToRGB(0.7, 0.15, hue),
			}
			if index%2 == 1 {
				sphere.Reflection = float32Ptr(0.5)
			}
			if row == GridSize-1 {
				sphere.Diffuse = float32Ptr(0.2)
			}
			spheres = append(spheres, sphere)
		}
	}

	return Preset{
		Name:   "grid",
		Width:  800,
		Height: 450,
		Camera: CameraDescriptor{
			Origin: [3]float32{0, 5, 9},
			View:   [3]float32{0, -0.45, -1},
			Up:     [3]float32{0, 1, 0},
		},
		Scene: Description{
			Spheres: spheres,
			Lights: []LightDescriptor{
				{Origin: [3]float32{-4, 6, 4}},
				{Origin: [3]float32{5, 4, -2}},
			},
		},
	}
}
