package forecast

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientHistory is returned by ProjectCashFlow when too few months
// carry activity to project from. Use errors.Is to detect it.
var ErrInsufficientHistory = errors.New("insufficient cash-flow history")

// ValidationError rejects an out-of-domain input before any computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	return nil
}
