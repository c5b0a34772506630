package tensor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// orthoTolerance bounds |v1·v2| before the second eigenvector is replaced by
// the perpendicular of the first.
const orthoTolerance = 1e-9

// EigenPair is one eigenvalue with its unit-length eigenvector.
type EigenPair struct {
	Value  float64    `json:"value"`
	Vector mgl64.Vec2 `json:"vector"`
}

// EigenResult holds both eigenpairs of a structure tensor. Index 0 carries
// trace/2 + disc and index 1 trace/2 - disc; callers that need a display
// order should use Project.
type EigenResult [2]EigenPair

// Eigen computes the eigendecomposition of the symmetric matrix
// [[a, b], [b, d]] = [[Sxx, Sxy], [Sxy, Syy]] in closed form:
//
//	disc = sqrt(max(trace²/4 - det, 0))
//	λ = trace/2 ± disc
//
// The radicand is clamped at zero because round-off can push it slightly
// negative for near-isotropic matrices.
//
// For b ≠ 0 each eigenvector is normalize((b, λ - a)), or the parallel
// (λ - d, b) when that one is longer, which avoids cancellation in λ - a when
// b is tiny next to a. For b = 0 the matrix is already diagonal and the axis
// vectors are used: (1, 0) for the eigenvalue equal to a and (0, 1) for the
// one equal to d. Eigenvectors have no fixed sign.
func Eigen(t StructureTensor) EigenResult {
	a, b, d := t.Sxx, t.Sxy, t.Syy

	half := t.Trace() / 2
	disc := math.Sqrt(math.Max(half*half-t.Det(), 0))
	l1, l2 := half+disc, half-disc

	if b == 0 {
		ex, ey := mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}
		if a >= d {
			return EigenResult{{Value: l1, Vector: ex}, {Value: l2, Vector: ey}}
		}
		return EigenResult{{Value: l1, Vector: ey}, {Value: l2, Vector: ex}}
	}

	v1 := eigenvector(a, b, d, l1)
	v2 := eigenvector(a, b, d, l2)
	if math.Abs(v1.Dot(v2)) > orthoTolerance {
		// Isotropic limit: both formula vectors collapse onto (b, 0).
		v2 = mgl64.Vec2{-v1.Y(), v1.X()}
	}
	return EigenResult{{Value: l1, Vector: v1}, {Value: l2, Vector: v2}}
}

// eigenvector returns the unit eigenvector for eigenvalue l of
// [[a, b], [b, d]] with b ≠ 0.
func eigenvector(a, b, d, l float64) mgl64.Vec2 {
	u := mgl64.Vec2{b, l - a}
	if v := (mgl64.Vec2{l - d, b}); v.Len() > u.Len() {
		u = v
	}
	return u.Normalize()
}
