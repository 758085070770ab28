package syntax

import "errors"

// Exponent errors.
var (
	// ErrExponentRange indicates a decoded exponent outside the power table.
	ErrExponentRange = errors.New("syntax: exponent out of range")
)

// Coefficient errors.
var (
	// ErrRunOverflow indicates a run that moves past the block's coefficient count.
	ErrRunOverflow = errors.New("syntax: run exceeds coefficient count")
)
