package opinion

import "errors"

var (
	// ErrConstraintViolation is returned when an opinion's additivity or
	// bounds are broken, at construction or on an operator's output. For
	// valid inputs operator outputs never trip it; it exists as an
	// assertion boundary.
	ErrConstraintViolation = errors.New("opinion: simplex constraint violation")

	// ErrEmptyInput is returned when an n-ary operator is called with zero
	// opinions, or an erasure scope is empty after exemption filtering.
	ErrEmptyInput = errors.New("opinion: empty input")

	// ErrInvalidTemporalInput is returned when a temporal trigger is given
	// a malformed or missing timestamp where ordering is required.
	ErrInvalidTemporalInput = errors.New("opinion: invalid temporal input")
)
