package tensor

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// DisplayScale divides raw eigenvalues before presentation.
const DisplayScale = 1000.0

// DisplayResult is an eigendecomposition prepared for presentation.
//
// Entry 0 always belongs to the larger eigenvalue. Values, Vectors and
// Arrows are index-aligned, so Vectors[i] is the eigenvector of Values[i].
type DisplayResult struct {
	// Lambda1 and Lambda2 are the rounded scaled eigenvalues, Lambda1 ≥ Lambda2.
	Lambda1 int `json:"lambda1"`
	Lambda2 int `json:"lambda2"`

	// Values are the scaled eigenvalues before rounding.
	Values [2]float64 `json:"values"`

	// Vectors are the unit eigenvectors.
	Vectors [2]mgl64.Vec2 `json:"vectors"`

	// Arrows are the eigenvectors scaled by their own scaled eigenvalue,
	// ready for arrow rendering.
	Arrows [2]mgl64.Vec2 `json:"arrows"`
}

// Project scales the eigenvalues of e by 1/DisplayScale and orders the pairs
// numerically, largest first.
//
// Eigenvalues of a structure tensor are non-negative; small negative values
// produced by round-off are clamped to zero. Each eigenvector travels with its
// own eigenvalue through the sort.
func Project(e EigenResult) DisplayResult {
	pairs := []EigenPair{e[0], e[1]}
	for i := range pairs {
		pairs[i].Value = math.Max(pairs[i].Value, 0) / DisplayScale
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Value > pairs[j].Value
	})

	var out DisplayResult
	for i, p := range pairs {
		out.Values[i] = p.Value
		out.Vectors[i] = p.Vector
		out.Arrows[i] = p.Vector.Mul(p.Value)
	}
	out.Lambda1 = int(math.Round(out.Values[0]))
	out.Lambda2 = int(math.Round(out.Values[1]))
	return out
}
