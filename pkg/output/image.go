package output

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Formats lists the file extensions Save understands
var Formats = []string{"ppm", "png", "jpg", "jpeg", "gif", "tif", "tiff", "bmp"}

// IsSupportedFormat reports whether format (without the dot) can be saved
func IsSupportedFormat(format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Save writes img to path, picking the encoder from the file extension.
// PPM is written natively, everything else goes through imaging.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !IsSupportedFormat(ext) {
		return fmt.Errorf("unsupported image format %q", ext)
	}
	if ext == "ppm" {
		return SavePPM(path, img)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down so its longer side is at most maxSide pixels,
// keeping the aspect ratio. Images already small enough are returned as is.
func Thumbnail(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), img, resize.Lanczos3)
}
