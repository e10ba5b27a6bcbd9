// Package imaging turns image files into the feature vectors fed to the
// network input layer.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"golang.org/x/image/bmp"
)

// Errors returned by BMPNormalizer.
var (
	ErrDecode     = errors.New("imaging: cannot read image")
	ErrNotSquare  = errors.New("imaging: image sides must be equal")
	ErrPixelCount = errors.New("imaging: pixel count does not match input width")
)

// Normalizer converts the file at path into a feature vector in [0, 1].
type Normalizer interface {
	Load(path string) ([]float32, error)
}

// BMPNormalizer reads square BMP images with exactly InputWidth pixels.
type BMPNormalizer struct {
	InputWidth int
}

// NewBMPNormalizer returns a normalizer for images of inputWidth pixels.
func NewBMPNormalizer(inputWidth int) *BMPNormalizer {
	return &BMPNormalizer{InputWidth: inputWidth}
}

// Load decodes the BMP file at path and normalizes it.
func (n *BMPNormalizer) Load(path string) ([]float32, error) {
	//nolint:gosec // G304: image paths come from the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	vec, err := n.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vec, nil
}

// Decode reads a BMP image from r and normalizes it.
func (n *BMPNormalizer) Decode(r io.Reader) ([]float32, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return n.Normalize(img)
}

// Normalize converts img to a row-major feature vector, top row first.
func (n *BMPNormalizer) Normalize(img image.Image) ([]float32, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	if w != h {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, w, h)
	}
	if w*h != n.InputWidth {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPixelCount, w*h, n.InputWidth)
	}

	vec := make([]float32, n.InputWidth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vec[y*w+x] = PixelValue(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return vec, nil
}

// PixelValue packs the 8-bit red, green and blue channels of c into the top
// three bytes of a uint32 and scales the result into [0, 1]. Alpha is ignored.
func PixelValue(c color.Color) float32 {
	p := color.NRGBAModel.Convert(c).(color.NRGBA)
	v := uint32(p.R)<<24 | uint32(p.G)<<16 | uint32(p.B)<<8
	return float32(v) / float32(math.MaxUint32)
}
