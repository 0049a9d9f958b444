package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is an output encoding for extracted images.
type Format int

const (
	PNG Format = iota
	TIFF
	BMP
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case TIFF:
		return ".tif"
	case BMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// ParseFormat returns the Format named by s (png, tiff, tif or bmp).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "tiff", "tif":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	default:
		return PNG, fmt.Errorf("unknown image format %q", s)
	}
}

// Image is a decoded single-band raster with one unsigned byte per
// sample, stored row by row, left to right and top to bottom.
type Image struct {
	Width      int
	Height     int
	SampleType string // IMAGE.SAMPLE_TYPE as labelled
	Offset     int64  // byte offset of the first sample in the source
	Checksum   string // verified MD5 digest, empty when none was labelled

	Gray *image.Gray
}

var _ Artifact = (*Image)(nil)

// newImage wraps samples without copying. The rows are unpadded, so the
// stride equals the width.
func newImage(data []byte, width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Gray: &image.Gray{
			Pix:    data,
			Stride: width,
			Rect:   image.Rect(0, 0, width, height),
		},
	}
}

// Object implements Artifact.
func (img *Image) Object() string { return LabelImage }

// Samples returns the raw samples in file order.
func (img *Image) Samples() []byte { return img.Gray.Pix }

// Encode writes the image to w in format f.
func (img *Image) Encode(w io.Writer, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img.Gray)
	case TIFF:
		err = tiff.Encode(w, img.Gray, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		err = bmp.Encode(w, img.Gray)
	default:
		return fmt.Errorf("unsupported output format %v", f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// ToPNG returns the image encoded as PNG.
func (img *Image) ToPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := img.Encode(&buf, PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail returns a copy scaled so that neither side exceeds max,
// keeping the aspect ratio. The original raster is returned when it
// already fits or when max is not positive.
func (img *Image) Thumbnail(max int) *image.Gray {
	if max <= 0 || (img.Width <= max && img.Height <= max) {
		return img.Gray
	}

	w, h := max, max
	if img.Width >= img.Height {
		h = img.Height * max / img.Width
	} else {
		w = img.Width * max / img.Height
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.Gray, img.Gray.Bounds(), draw.Src, nil)
	return dst
}
