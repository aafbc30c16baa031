// Package capture writes rendered frames to disk.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Format is a screenshot encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ErrUnknownFormat is returned for formats other than PNG and WebP.
var ErrUnknownFormat = errors.New("capture: unknown format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case PNG, WebP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Screenshot saves frames as timestamped files.
type Screenshot struct {
	dir    string
	prefix string
	format Format

	now func() time.Time
}

// NewScreenshot creates a capture handler writing into dir.
func NewScreenshot(dir, prefix string, format Format) *Screenshot {
	if format == "" {
		format = PNG
	}
	return &Screenshot{dir: dir, prefix: prefix, format: format, now: time.Now}
}

// Filename returns the path the next capture would use.
func (s *Screenshot) Filename() string {
	name := fmt.Sprintf("%s_%s.%s", s.prefix, s.now().Format("2006-01-02_15-04-05.000"), s.format)
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}

// FromPixels saves bottom-up RGBA rows as read back from GL.
func (s *Screenshot) FromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.FromImage(img)
}

// FromImage saves img.
func (s *Screenshot) FromImage(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename()
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, img, s.format); err != nil {
		return "", err
	}
	return filename, nil
}

// Encode writes img in format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// FlipPixels converts bottom-up RGBA rows into a top-down image.
func FlipPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}
