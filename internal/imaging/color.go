package imaging

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PixelSample describes the pixel at the centre of a query window.
//
// Colours are straight (non-premultiplied) and alpha is dropped, the same way
// the luminance is derived. Luminance is the value the gradient field was
// computed from, so it can be checked against the reported eigenvalues when a
// result looks surprising.
type PixelSample struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Hex       string   `json:"hex"` // Hex format "#rrggbb" (no alpha)
	RGB       RGBColor `json:"rgb"`
	HSL       HSLColor `json:"hsl"`
	Luminance float64  `json:"luminance"`
}

// SamplePixel reads the pixel at (x, y) after clamping the point into the
// image, matching how queries pick their sample point.
func SamplePixel(img *LoadedImage, x, y int) PixelSample {
	x, y = img.Field.ClampPoint(x, y)
	b := img.Source.Bounds()

	px := color.NRGBAModel.Convert(img.Source.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	c := colorful.Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
	}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return PixelSample{
		X:   x,
		Y:   y,
		Hex: c.Hex(),
		RGB: RGBColor{R: px.R, G: px.G, B: px.B},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Luminance: img.Field.LuminanceAt(x, y),
	}
}
