package vbloom

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the root of all policy configuration errors.
var ErrInvalidConfig = errors.New("vbloom: invalid configuration")

// ErrInvalidBitsPerKey indicates a bits-per-key setting below 1.
//
// errors.Is(err, ErrInvalidConfig) reports true for this error.
type ErrInvalidBitsPerKey struct {
	BitsPerKey int
}

func (e *ErrInvalidBitsPerKey) Error() string {
	return fmt.Sprintf("vbloom: invalid bits per key: %d (must be >= 1)", e.BitsPerKey)
}

func (e *ErrInvalidBitsPerKey) Unwrap() error { return ErrInvalidConfig }
