package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a finished render
type RenderStats struct {
	Width         int           // Output image width
	Height        int           // Output image height
	Resolution    int           // Canvas samples per side
	CanvasSamples int           // Number of rays traced from the camera
	Duration      time.Duration // Wall time of the render
}

// SamplesPerPixel returns how many camera rays were traced per output pixel
func (s RenderStats) SamplesPerPixel() float64 {
	pixels := s.Width * s.Height
	if pixels == 0 {
		return 0
	}
	return float64(s.CanvasSamples) / float64(pixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image
// in [0, 1]. Useful for checking that a render is not blank.
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(pixels)
}
