package tensor

import "errors"

var (
	// ErrInvalidImage is returned when image dimensions are non-positive or
	// the pixel buffer does not hold exactly 4·width·height bytes.
	ErrInvalidImage = errors.New("tensor: invalid image")

	// ErrInvalidParameter is returned for an even or out-of-range kernel size,
	// or a sigma outside the supported range.
	ErrInvalidParameter = errors.New("tensor: invalid parameter")
)
