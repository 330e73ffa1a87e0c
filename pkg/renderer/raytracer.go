package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Shader computes the color seen along a camera ray
type Shader interface {
	Shade(ray core.Ray, random *rand.Rand) (core.Color, error)
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Seed         int64 // Seed for normal jitter; 0 picks one from the clock
	ProgressRows int   // Log progress every this many canvas rows; 0 disables
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Seed:         42, // Deterministic for testing
		ProgressRows: 100,
	}
}

// Raytracer renders a scene through a camera into an image. Rendering is
// sequential and a Raytracer must not be used from several goroutines.
type Raytracer struct {
	scene  Shader
	camera *Camera
	width  int
	height int
	config RenderConfig
	random *rand.Rand
	logger core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(scene Shader, camera *Camera, width, height int, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Raytracer{
		scene:  scene,
		camera: camera,
		width:  width,
		height: height,
		config: config,
		random: rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// window returns the canvas resolution and the offsets of the image inside
// the square canvas. The short side of the image is centred.
func (rt *Raytracer) window() (resolution, wShift, hShift int) {
	longest := max(rt.width, rt.height)
	if rt.height < rt.width {
		hShift = (longest - rt.height) / 2
	} else {
		wShift = (longest - rt.width) / 2
	}
	return longest + 1, wShift, hShift
}

// Render traces one ray per canvas sample covering the image and blends every
// four neighbouring samples into an output pixel
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", rt.width, rt.height)
	}

	start := time.Now()
	resolution, wShift, hShift := rt.window()
	canvas := NewCanvas(rt.camera, resolution)
	resolution = canvas.Resolution()

	// samples covers canvas columns wShift..wShift+width and rows
	// hShift..hShift+height inclusive
	columns, rows := rt.width+1, rt.height+1
	samples := make([]core.Color, columns*rows)

	rt.logger.Printf("Rendering %dx%d image from a %dx%d canvas...\n", rt.width, rt.height, resolution, resolution)

	for j := 0; j < rows; j++ {
		select {
		case <-ctx.Done():
			rt.logger.Printf("Rendering cancelled at row %d of %d\n", j, rows)
			return nil, RenderStats{}, ctx.Err()
		default:
		}

		for i := 0; i < columns; i++ {
			ray, err := canvas.GetRay(i+wShift, j+hShift)
			if err != nil {
				return nil, RenderStats{}, fmt.Errorf("camera ray at canvas (%d, %d): %w", i+wShift, j+hShift, err)
			}
			color, err := rt.scene.Shade(ray, rt.random)
			if err != nil {
				return nil, RenderStats{}, fmt.Errorf("shading canvas (%d, %d): %w", i+wShift, j+hShift, err)
			}
			samples[j*columns+i] = color
		}

		if rt.config.ProgressRows > 0 && (j+1)%rt.config.ProgressRows == 0 {
			rt.logger.Printf("Traced %d of %d rows\n", j+1, rows)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for j := 0; j < rt.height; j++ {
		for i := 0; i < rt.width; i++ {
			ul := samples[j*columns+i]
			ur := samples[j*columns+i+1]
			bl := samples[(j+1)*columns+i]
			br := samples[(j+1)*columns+i+1]
			img.SetRGBA(i, j, bl.Mix(br).Mix(ul.Mix(ur)).ToRGBA())
		}
	}

	stats := RenderStats{
		Width:         rt.width,
		Height:        rt.height,
		Resolution:    resolution,
		CanvasSamples: len(samples),
		Duration:      time.Since(start),
	}
	rt.logger.Printf("Render completed in %v (%d camera rays)\n", stats.Duration, stats.CanvasSamples)

	return img, stats, nil
}
