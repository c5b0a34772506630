// Package tensor computes the local structure tensor of a raster image and its
// eigendecomposition.
//
// The structure tensor at a point is the Gaussian-weighted sum of the outer
// products of the image gradient over a square window centred on that point:
//
//	S = Σ w(dx,dy) · [Ix², IxIy; IxIy, Iy²]
//
// Its eigenvalues describe how much intensity varies along the dominant and
// the orthogonal direction, so they separate flat regions (both small),
// edges (one large) and corners (both large).
//
// # Pipeline
//
//  1. Luminance: RGBA -> 0.3R + 0.59G + 0.11B (alpha ignored)
//  2. GradientField: 3x3 Sobel operators, computed once per image.
//     The one-pixel border keeps a gradient of zero.
//  3. Kernel: normalized size×size Gaussian table, rebuilt only when the
//     (size, sigma) pair changes.
//  4. BuildStructureTensor: weighted window sum at a query point. Samples
//     outside the image are clamped to the nearest edge pixel.
//  5. Eigen: closed-form eigendecomposition of the symmetric 2x2 matrix.
//  6. Project: eigenvalues divided by DisplayScale and ordered largest first.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Query coordinates outside
// the image are not an error; they are clamped into bounds.
//
// # Thread Safety
//
// Image and Kernel values are immutable once constructed and may be shared by
// any number of goroutines. KernelCache is safe for concurrent use. Queries
// never mutate shared state.
//
// # Error Handling
//
// Construction functions return errors wrapping ErrInvalidImage or
// ErrInvalidParameter; match them with errors.Is. Queries are total over
// valid handles and never fail.
package tensor
