package curvefill

import "errors"

// Sentinel errors returned by host-side validation. GPU passes themselves
// report nothing; out-of-contract inputs are caught before submission.
var (
	// ErrMetadataReserved indicates a vertex metadata word with reserved
	// bits set.
	ErrMetadataReserved = errors.New("curvefill: reserved metadata bits set")

	// ErrColorIndexRange indicates a color index at or beyond the end of
	// the color table.
	ErrColorIndexRange = errors.New("curvefill: color index out of range")
)
