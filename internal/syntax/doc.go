// Package syntax implements WMA bitstream element parsing.
//
// Each function reads one syntax element from a bits.Reader. Values that
// need stream context (band layouts, table selection, bit widths) are
// passed in by the caller, so this package keeps no decoder state.
package syntax
