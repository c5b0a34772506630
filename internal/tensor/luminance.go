package tensor

import "fmt"

// Luminance weights applied to the red, green and blue channels.
const (
	lumaR = 0.3
	lumaG = 0.59
	lumaB = 0.11
)

// Luminance converts a row-major RGBA buffer into one intensity value per
// pixel using L = 0.3R + 0.59G + 0.11B. Alpha is ignored and values stay on
// the 0-255 scale of the input channels.
//
// The buffer must hold exactly 4·width·height bytes; anything else returns an
// error wrapping ErrInvalidImage.
func Luminance(pix []uint8, width, height int) ([]float64, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidImage, width, height)
	}
	if len(pix) != 4*width*height {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, want %d for %dx%d",
			ErrInvalidImage, len(pix), 4*width*height, width, height)
	}

	lum := make([]float64, width*height)
	for i := range lum {
		p := pix[4*i : 4*i+3 : 4*i+3]
		lum[i] = lumaR*float64(p[0]) + lumaG*float64(p[1]) + lumaB*float64(p[2])
	}
	return lum, nil
}
