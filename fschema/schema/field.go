package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Kind is the semantic type of a field. The validator is selected by Kind.
type Kind string

const (
	String          Kind = "string"
	PositiveInteger Kind = "positive_integer"
	Boolean         Kind = "boolean"
	StringOptions   Kind = "string_options"
)

// Field declares a single configuration option.
type Field struct {
	Name        string
	Kind        Kind
	Default     any
	AllowNone   bool
	Options     []string // closed set for StringOptions
	Description string
	// Internal fields are filled in by a later pipeline stage, never by the user.
	Internal bool
}

func (f Field) clone() Field {
	if f.Options != nil {
		f.Options = append([]string(nil), f.Options...)
	}
	return f
}

func (f Field) allows(option string) bool {
	for _, o := range f.Options {
		if o == option {
			return true
		}
	}
	return false
}

// check coerces v to the field's canonical Go type or returns the violated constraint.
func (f Field) check(v any) (any, error) {
	if v == nil {
		if f.AllowNone {
			return nil, nil
		}
		return nil, ErrNull
	}

	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidType
		}
		return s, nil
	case StringOptions:
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidType
		}
		if !f.allows(s) {
			return nil, ErrNotInOptions
		}
		return s, nil
	case Boolean:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		return b, nil
	case PositiveInteger:
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, ErrNotPositive
		}
		return n, nil
	}
	return nil, ErrInvalidType
}

// toInt accepts Go integers, integral floats (decoded JSON numbers) and decimal strings.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case bool:
		return 0, ErrInvalidType
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, ErrInvalidType
		}
		return i, nil
	case int, int8, int16, int32, int64:
		i, err := cast.ToInt64E(n)
		if err != nil || i > math.MaxInt || i < math.MinInt {
			return 0, ErrInvalidType
		}
		return int(i), nil
	case uint, uint8, uint16, uint32, uint64:
		u, err := cast.ToUint64E(n)
		if err != nil || u > math.MaxInt {
			return 0, ErrInvalidType
		}
		return int(u), nil
	}
	return 0, ErrInvalidType
}

// toBool accepts bools, the integers 0 and 1 and strconv.ParseBool spellings.
func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, ErrInvalidType
		}
		return parsed, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToInt64E(b)
		if err != nil || (n != 0 && n != 1) {
			return false, ErrInvalidType
		}
		return n == 1, nil
	}
	return false, ErrInvalidType
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrInvalidType
	}
	if math.Abs(f) > 1<<53 {
		return 0, ErrInvalidType
	}
	return int(f), nil
}
