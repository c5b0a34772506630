package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/structure-tensor-mcp/internal/tensor"
)

// DefaultFootprintColor outlines the kernel window when no colour is given.
const DefaultFootprintColor = "#00C853"

// MaxOverlayScale bounds OverlayOptions.Scale.
const MaxOverlayScale = 8.0

var (
	majorArrowColor = colorful.Hsv(0, 0.85, 0.95)
	minorArrowColor = colorful.Hsv(210, 0.85, 0.95)
)

// OverlayOptions controls how a query result is drawn.
type OverlayOptions struct {
	// ArrowLength is the length in pixels of the major eigenvector arrow.
	// The minor arrow is drawn proportionally shorter. Default 20.
	ArrowLength float64

	// Thickness is the stroke width of arrows in pixels. Default 1.
	Thickness float64

	// FootprintColor is a "#RRGGBB" colour for the kernel window outline.
	// Empty selects DefaultFootprintColor.
	FootprintColor string

	// Scale resizes the rendered image (e.g. 2.0 doubles it). 0 or 1 keeps
	// the original size. At most MaxOverlayScale.
	Scale float64

	// Dim darkens the image under the overlay, from 0 (unchanged) to 1
	// (black), so arrows stay visible on bright or busy backgrounds.
	Dim float64
}

// OverlayResult contains the rendered overlay encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws a query result over the source image: the kernel
// window as a rectangle outline and the two eigenvectors as arrows from the
// sample point.
//
// Arrow lengths follow the projected eigenvalues: the major arrow is
// ArrowLength pixels and the minor arrow is scaled by lambda2/lambda1. When
// both eigenvalues are zero only the window is drawn. Eigenvectors have no
// sign, so arrows always point along +vector.
func RenderOverlay(src image.Image, a tensor.Analysis, opts OverlayOptions) (*OverlayResult, error) {
	if opts.ArrowLength <= 0 {
		opts.ArrowLength = 20
	}
	if opts.Thickness <= 0 {
		opts.Thickness = 1
	}
	if opts.FootprintColor == "" {
		opts.FootprintColor = DefaultFootprintColor
	}

	if opts.Scale < 0 || opts.Scale > MaxOverlayScale {
		return nil, fmt.Errorf("scale %g outside [0, %g]", opts.Scale, MaxOverlayScale)
	}
	if opts.Dim < 0 || opts.Dim > 1 {
		return nil, fmt.Errorf("dim %g outside [0, 1]", opts.Dim)
	}

	footprint, err := colorful.Hex(opts.FootprintColor)
	if err != nil {
		return nil, fmt.Errorf("invalid footprint color %q: %w", opts.FootprintColor, err)
	}

	background := src
	if opts.Dim > 0 {
		background = adjust.Brightness(src, -opts.Dim)
	}
	canvas := imaging.Clone(background)
	r := (a.KernelSize - 1) / 2
	drawRectOutline(canvas, image.Rect(a.SampleX-r, a.SampleY-r, a.SampleX+r+1, a.SampleY+r+1), footprint)

	centre := mgl64.Vec2{float64(a.SampleX), float64(a.SampleY)}
	d := a.Display
	if d.Values[0] > 0 {
		colors := [2]color.Color{majorArrowColor, minorArrowColor}
		for i := 1; i >= 0; i-- {
			length := opts.ArrowLength * d.Values[i] / d.Values[0]
			if length < 1 {
				continue
			}
			tip := centre.Add(d.Vectors[i].Mul(length))
			drawArrow(canvas, centre, tip, opts.Thickness, colors[i])
		}
	}

	var out image.Image = canvas
	if opts.Scale > 0 && opts.Scale != 1.0 {
		w := int(float64(canvas.Bounds().Dx()) * opts.Scale)
		h := int(float64(canvas.Bounds().Dy()) * opts.Scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g produces an empty image", opts.Scale)
		}
		out = imaging.Resize(canvas, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// drawRectOutline draws the one-pixel border of rect, clipped to the image.
func drawRectOutline(img *image.NRGBA, rect image.Rectangle, c color.Color) {
	bounds := img.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			img.Set(x, y, c)
		}
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		set(x, rect.Min.Y)
		set(x, rect.Max.Y-1)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		set(rect.Min.X, y)
		set(rect.Max.X-1, y)
	}
}

// drawArrow draws a shaft from -> to and a two-stroke head at to.
func drawArrow(img *image.NRGBA, from, to mgl64.Vec2, thickness float64, c color.Color) {
	drawSegment(img, newSegment(from, to, thickness), c)

	shaft := to.Sub(from)
	headLen := math.Min(6, 0.35*shaft.Len())
	back := shaft.Normalize().Mul(-headLen)
	for _, angle := range []float64{math.Pi / 6, -math.Pi / 6} {
		rot := mgl64.Rotate2D(angle)
		wing := to.Add(rot.Mul2x1(back))
		drawSegment(img, newSegment(to, wing, thickness), c)
	}
}

// segment is a thick line in image coordinates. toLocal maps a pixel into a
// frame where the segment starts at the origin and runs along +X.
type segment struct {
	min, max  image.Point
	length    float64
	thickness float64
	toLocal   mgl64.Mat3
}

func newSegment(from, to mgl64.Vec2, thickness float64) segment {
	delta := to.Sub(from)
	angle := math.Atan2(delta.Y(), delta.X())
	pad := int(thickness + 0.99)

	return segment{
		min:       image.Pt(int(math.Floor(math.Min(from.X(), to.X())))-pad, int(math.Floor(math.Min(from.Y(), to.Y())))-pad),
		max:       image.Pt(int(math.Ceil(math.Max(from.X(), to.X())))+pad, int(math.Ceil(math.Max(from.Y(), to.Y())))+pad),
		length:    delta.Len(),
		thickness: thickness,
		toLocal:   mgl64.HomogRotate2D(-angle).Mul3(mgl64.Translate2D(-from.X(), -from.Y())),
	}
}

// covers reports whether pixel (x, y) lies on the segment.
func (s segment) covers(x, y int) bool {
	p := s.toLocal.Mul3x1(mgl64.Vec3{float64(x), float64(y), 1})
	if p.X() < -0.5 || p.X() > s.length+0.5 {
		return false
	}
	return math.Abs(p.Y()) <= s.thickness/2+0.5
}

func drawSegment(img *image.NRGBA, s segment, c color.Color) {
	r := image.Rectangle{Min: s.min, Max: s.max.Add(image.Pt(1, 1))}.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if s.covers(x, y) {
				img.Set(x, y, c)
			}
		}
	}
}
