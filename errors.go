package networth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/networth/date"
)

var (
	// ErrValidation is matched by every input rejection.
	ErrValidation = errors.New("validation rejected")
	// ErrRateUnavailable is matched when a conversion rate cannot be resolved.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrEmptyAggregate is returned when a breakdown is asked for a zero total balance.
	ErrEmptyAggregate = errors.New("total balance is zero")
)

// ValidationError lists every rule violated by an operation's input.
type ValidationError struct {
	Op         string // Op is the rejected operation, e.g. "purchase".
	Subject    string // Subject is the holding or portfolio name.
	Violations []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%s %q rejected: %s", e.Op, e.Subject, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Unwrap returns the violations.
func (e *ValidationError) Unwrap() []error { return e.Violations }

// validation accumulates violations for one operation.
type validation struct {
	ValidationError
}

func (v *validation) failf(format string, args ...any) {
	v.Violations = append(v.Violations, fmt.Errorf(format, args...))
}

// Err returns nil if no rule was violated.
func (v *validation) Err() error {
	if len(v.Violations) == 0 {
		return nil
	}
	e := v.ValidationError
	return &e
}

// RateError reports a conversion that could not be resolved.
type RateError struct {
	On       date.Date
	From, To string
	Err      error
}

func (e *RateError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s on %s: %v", e.From, e.To, e.On, e.Err)
}

// Is makes errors.Is(err, ErrRateUnavailable) true.
func (e *RateError) Is(target error) bool { return target == ErrRateUnavailable }

func (e *RateError) Unwrap() error { return e.Err }
