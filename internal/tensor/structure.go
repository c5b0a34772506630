package tensor

// StructureTensor is the symmetric 2x2 matrix [[Sxx, Sxy], [Sxy, Syy]]
// accumulated at one query point.
type StructureTensor struct {
	Sxx float64 `json:"sxx"`
	Sxy float64 `json:"sxy"`
	Syy float64 `json:"syy"`
}

// Trace returns Sxx + Syy.
func (t StructureTensor) Trace() float64 { return t.Sxx + t.Syy }

// Det returns Sxx·Syy - Sxy².
func (t StructureTensor) Det() float64 { return t.Sxx*t.Syy - t.Sxy*t.Sxy }

// BuildStructureTensor accumulates the Gaussian-weighted gradient products
// of g over the window of k centred on (x, y).
//
// Every sample position is clamped to the image, so windows that overhang
// the border reuse the nearest edge pixel. A query point outside the image
// is first moved to the nearest in-bounds point. This differs from the
// zero-filled border of the gradient field itself.
//
// The full window is summed on every call.
func BuildStructureTensor(g *GradientField, k *Kernel, x, y int) StructureTensor {
	var t StructureTensor
	r := k.Radius()
	maxX, maxY := g.width-1, g.height-1
	x, y = clamp(x, 0, maxX), clamp(y, 0, maxY)

	for ky := -r; ky <= r; ky++ {
		sy := clamp(y+ky, 0, maxY)
		for kx := -r; kx <= r; kx++ {
			sx := clamp(x+kx, 0, maxX)
			w := k.Weight(kx, ky)
			ix, iy := g.At(sx, sy)
			t.Sxx += w * ix * ix
			t.Syy += w * iy * iy
			t.Sxy += w * ix * iy
		}
	}
	return t
}
