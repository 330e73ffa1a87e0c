package output

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
)

// WritePPM encodes img as a binary PPM (P6) with a maxval of 255. The header
// fields are separated by newlines and pixels follow row by row as RGB
// triples. Alpha is dropped.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d\n%d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	row := make([]byte, 0, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			row = append(row, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("failed to write PPM row %d: %w", y-bounds.Min.Y, err)
		}
	}

	return bw.Flush()
}

// SavePPM writes img to path as a binary PPM
func SavePPM(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return WritePPM(file, img)
}
