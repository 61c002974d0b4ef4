package types

import "errors"

// Card operation errors.
var (
	ErrValidation    = errors.New("card validation failed")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidID     = errors.New("invalid card ID")
)
