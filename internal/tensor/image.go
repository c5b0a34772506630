package tensor

import "fmt"

// Image is a loaded raster prepared for structure tensor queries. The
// luminance and gradient fields are derived once by LoadImage and never
// change.
type Image struct {
	width     int
	height    int
	luminance []float64
	gradients *GradientField
}

// LoadImage derives the luminance and gradient fields of a row-major RGBA
// buffer of 4·width·height bytes.
//
// It returns an error wrapping ErrInvalidImage if width or height is below 1
// or the buffer length does not match.
func LoadImage(pix []uint8, width, height int) (*Image, error) {
	lum, err := Luminance(pix, width, height)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return &Image{
		width:     width,
		height:    height,
		luminance: lum,
		gradients: NewGradientField(lum, width, height),
	}, nil
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// Gradients returns the Sobel gradient field of the image.
func (im *Image) Gradients() *GradientField { return im.gradients }

// ClampPoint moves (x, y) to the nearest pixel inside the image. Queries
// sample at the clamped point.
func (im *Image) ClampPoint(x, y int) (int, int) {
	return clamp(x, 0, im.width-1), clamp(y, 0, im.height-1)
}

// LuminanceAt returns the luminance of pixel (x, y), which must be in bounds.
func (im *Image) LuminanceAt(x, y int) float64 { return im.luminance[y*im.width+x] }

// QueryStructureTensor computes the structure tensor of img at (x, y) with
// kernel k and returns its projected eigendecomposition.
func QueryStructureTensor(img *Image, k *Kernel, x, y int) DisplayResult {
	return Project(Eigen(BuildStructureTensor(img.gradients, k, x, y)))
}
