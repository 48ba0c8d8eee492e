package season

import "errors"

// Sentinel errors returned (wrapped) by engine entry points. Callers
// distinguish them with errors.Is; not-detected outcomes are values on
// the result types, never errors.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrUnknownCrop      = errors.New("unknown crop")
)
