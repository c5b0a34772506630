package tensor

import (
	"fmt"
	"math"
	"sync"
)

// Supported kernel parameter ranges, matching the bounds of the interactive
// controls that drive SetKernelParams.
const (
	MinKernelSize = 1
	MaxKernelSize = 51
	MinSigma      = 0.1
	MaxSigma      = 30.0
)

// Kernel is a normalized two-dimensional Gaussian weight table.
//
// The table is size×size, row-major, indexed by offsets (dx, dy) in
// [-Radius, Radius]². Weights are non-negative and sum to 1. A Kernel is
// immutable; changing the parameters means building a new one.
type Kernel struct {
	size    int
	sigma   float64
	weights []float64
}

// NewKernel builds the Gaussian table for (size, sigma).
//
// Each entry is evaluated analytically as
//
//	w(dx,dy) = 1/(2πσ²) · exp(-(dx²+dy²) / (2σ²))
//
// and the whole table is then divided by its sum. The division matters: point
// samples of the continuous Gaussian do not sum to 1, especially for small
// kernels.
//
// An even size, a size below 1, or a non-positive sigma returns an error
// wrapping ErrInvalidParameter. NewKernel does not enforce the interactive
// range limits; see SetKernelParams.
func NewKernel(size int, sigma float64) (*Kernel, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: kernel size %d must be at least 1", ErrInvalidParameter, size)
	}
	if size%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size %d must be odd", ErrInvalidParameter, size)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: sigma %g must be a positive finite number", ErrInvalidParameter, sigma)
	}

	r := (size - 1) / 2
	twoSigma2 := 2 * sigma * sigma
	norm := 1 / (math.Pi * twoSigma2)

	weights := make([]float64, size*size)
	var sum float64
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			w := norm * math.Exp(-float64(dx*dx+dy*dy)/twoSigma2)
			weights[(dy+r)*size+dx+r] = w
			sum += w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}

	return &Kernel{size: size, sigma: sigma, weights: weights}, nil
}

// SetKernelParams validates (size, sigma) against the supported ranges and
// builds the matching kernel.
//
// Errors wrap ErrInvalidParameter when size is even or outside
// [MinKernelSize, MaxKernelSize], or sigma is outside [MinSigma, MaxSigma].
func SetKernelParams(size int, sigma float64) (*Kernel, error) {
	if size < MinKernelSize || size > MaxKernelSize {
		return nil, fmt.Errorf("%w: kernel size %d outside [%d, %d]",
			ErrInvalidParameter, size, MinKernelSize, MaxKernelSize)
	}
	if !(sigma >= MinSigma && sigma <= MaxSigma) {
		return nil, fmt.Errorf("%w: sigma %g outside [%g, %g]",
			ErrInvalidParameter, sigma, MinSigma, MaxSigma)
	}
	return NewKernel(size, sigma)
}

// Size returns the side length of the table.
func (k *Kernel) Size() int { return k.size }

// Sigma returns the Gaussian standard deviation.
func (k *Kernel) Sigma() float64 { return k.sigma }

// Radius returns the half-width (size-1)/2.
func (k *Kernel) Radius() int { return (k.size - 1) / 2 }

// Weight returns the weight for offset (dx, dy). Both offsets must lie in
// [-Radius, Radius].
func (k *Kernel) Weight(dx, dy int) float64 {
	r := k.Radius()
	return k.weights[(dy+r)*k.size+dx+r]
}

// Weights returns a copy of the row-major weight table.
func (k *Kernel) Weights() []float64 {
	out := make([]float64, len(k.weights))
	copy(out, k.weights)
	return out
}

// Sum returns the sum of all weights, which is 1 up to rounding.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, w := range k.weights {
		s += w
	}
	return s
}

// KernelCache holds the current kernel, keyed by its (size, sigma) pair.
//
// Get returns the cached kernel while the parameters are unchanged and
// replaces it with a freshly built one when they change. The published kernel
// is never mutated, so callers may keep using a kernel they obtained earlier
// after the cache has moved on.
//
// KernelCache is safe for concurrent use. The zero value is an empty cache.
type KernelCache struct {
	mu      sync.Mutex
	current *Kernel
}

// Get returns the kernel for (size, sigma), building it through
// SetKernelParams when it differs from the current one. The boolean reports
// whether a new kernel was built. On error the current kernel is kept.
func (c *KernelCache) Get(size int, sigma float64) (*Kernel, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.current.size == size && c.current.sigma == sigma {
		return c.current, false, nil
	}

	k, err := SetKernelParams(size, sigma)
	if err != nil {
		return nil, false, err
	}
	c.current = k
	return k, true, nil
}

// Current returns the most recently built kernel, or nil if Get has not
// succeeded yet.
func (c *KernelCache) Current() *Kernel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
