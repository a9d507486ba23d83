package estimation

import "errors"

var (
	// ErrInvalidInput is returned for project specs the planner cannot lay out
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidConfig is returned when engine configuration is unusable
	ErrInvalidConfig = errors.New("invalid estimation config")
)
