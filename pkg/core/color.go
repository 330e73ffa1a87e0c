package core

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit RGB color. Arithmetic saturates at 255 instead of wrapping.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// NewColorFromArray creates a Color from an [r, g, b] array
func NewColorFromArray(rgb [3]uint8) Color {
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}
}

// Scale multiplies every channel by factor, truncating toward zero and
// saturating at 255. Negative and NaN factors give black.
func (c Color) Scale(factor float32) Color {
	return Color{
		R: scaleChannel(c.R, factor),
		G: scaleChannel(c.G, factor),
		B: scaleChannel(c.B, factor),
	}
}

// Add returns the per-channel sum, saturating at 255
func (c Color) Add(other Color) Color {
	return Color{
		R: addChannel(c.R, other.R),
		G: addChannel(c.G, other.G),
		B: addChannel(c.B, other.B),
	}
}

// Mix returns the per-channel average computed as a/2 + b/2, the way canvas
// samples are blended into output pixels
func (c Color) Mix(other Color) Color {
	return Color{
		R: c.R/2 + other.R/2,
		G: c.G/2 + other.G/2,
		B: c.B/2 + other.B/2,
	}
}

// RGBA implements color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// ToRGBA converts to an opaque color.RGBA
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c Color) String() string {
	return fmt.Sprintf("(r %d, g %d, b %d)", c.R, c.G, c.B)
}

func scaleChannel(channel uint8, factor float32) uint8 {
	v := float64(channel) * float64(factor)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}

func addChannel(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(sum)
}
