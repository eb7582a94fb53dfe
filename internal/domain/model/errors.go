package model

import "errors"

// Sentinel kinds for record validation.
var (
	ErrInvalidRecord      = errors.New("invalid pipeline record")
	ErrInconsistentCounts = errors.New("inconsistent row counts")
)
