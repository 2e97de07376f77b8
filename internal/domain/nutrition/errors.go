package nutrition

import "errors"

// Domain errors for profile normalization

var (
	ErrMissingUserID    = errors.New("profile user id is required")
	ErrMissingNutrition = errors.New("profile nutrition block is required")
	ErrNegativeTarget   = errors.New("nutrition values cannot be negative")
	ErrInvalidRange     = errors.New("nutrition range must satisfy min <= target <= max")
)
