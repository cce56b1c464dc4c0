package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Constraint violations reported by Validate. A FieldError unwraps to one of these.
var (
	ErrInvalidType   = errors.New("invalid type")
	ErrNotPositive   = errors.New("must be a positive integer")
	ErrNotInOptions  = errors.New("value not in allowed options")
	ErrNull          = errors.New("value may not be null")
	ErrUnknownField  = errors.New("unknown field")
	ErrInternalField = errors.New("field is computed internally and cannot be set")
	ErrConflict      = errors.New("conflicting values")
)

// FieldError identifies the offending field, the supplied value and the violated constraint.
type FieldError struct {
	Schema  string
	Field   string
	Value   any
	Allowed []string
	Err     error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Schema != "" {
		fmt.Fprintf(&b, "%s.", e.Schema)
	}
	fmt.Fprintf(&b, "%s: %v (got %#v)", e.Field, e.Err, e.Value)
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, ", allowed: [%s]", strings.Join(e.Allowed, ", "))
	}
	return b.String()
}

func (e *FieldError) Unwrap() error { return e.Err }

// FieldErrors flattens a (possibly wrapped or combined) validation error into
// its field errors, in reporting order.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case nil:
		case *FieldError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}
