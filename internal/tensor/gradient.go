package tensor

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// GradientField holds the horizontal and vertical Sobel responses of a
// luminance field, one value per pixel in row-major order.
//
// Only interior pixels are convolved. The one-pixel border keeps a gradient
// of zero, so images narrower or shorter than 3 pixels have an all-zero
// field. A GradientField is never modified after NewGradientField returns.
type GradientField struct {
	width  int
	height int
	ix     []float64
	iy     []float64
}

// NewGradientField applies the 3x3 Sobel operators to lum, which must hold
// width·height values.
//
// For every interior pixel (1 ≤ x < width-1, 1 ≤ y < height-1):
//
//	Ix = Σ L(x+kx, y+ky) · Sx[ky][kx]
//	Iy = Σ L(x+kx, y+ky) · Sy[ky][kx]
func NewGradientField(lum []float64, width, height int) *GradientField {
	g := &GradientField{
		width:  width,
		height: height,
		ix:     make([]float64, width*height),
		iy:     make([]float64, width*height),
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				row := (y + ky) * width
				for kx := -1; kx <= 1; kx++ {
					l := lum[row+x+kx]
					gx += l * sobelX[ky+1][kx+1]
					gy += l * sobelY[ky+1][kx+1]
				}
			}
			g.ix[y*width+x] = gx
			g.iy[y*width+x] = gy
		}
	}
	return g
}

// Width returns the field width in pixels.
func (g *GradientField) Width() int { return g.width }

// Height returns the field height in pixels.
func (g *GradientField) Height() int { return g.height }

// At returns the gradient at (x, y). The coordinates must be in bounds.
func (g *GradientField) At(x, y int) (ix, iy float64) {
	p := y*g.width + x
	return g.ix[p], g.iy[p]
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
