// Package schema describes configuration options as ordered field declarations
// and validates raw option maps against them.
package schema

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Values holds one validated value per schema field.
type Values map[string]any

// Clone returns a shallow copy of the values.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Check is a cross-field constraint run after every field passed validation.
type Check func(Values) *FieldError

// Schema is an ordered, immutable list of field declarations.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
	checks []Check
}

// New builds a schema. Every default must satisfy its own field's constraint.
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %s: field name cannot be empty", name)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %q", name, f.Name)
		}
		if err := s.checkDeclaration(f); err != nil {
			return nil, err
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f.clone())
	}
	return s, nil
}

func (s *Schema) checkDeclaration(f Field) error {
	switch f.Kind {
	case String, PositiveInteger, Boolean:
	case StringOptions:
		if len(f.Options) == 0 {
			return fmt.Errorf("schema %s: field %q declares no options", s.name, f.Name)
		}
	default:
		return fmt.Errorf("schema %s: field %q has unknown kind %q", s.name, f.Name, f.Kind)
	}
	if _, err := f.check(f.Default); err != nil {
		return fmt.Errorf("schema %s: default of field %q: %w", s.name, f.Name, err)
	}
	return nil
}

// Derive copies this schema under a new name, replacing each field whose name
// matches an override. Overrides must name existing fields.
func (s *Schema) Derive(name string, overrides ...Field) (*Schema, error) {
	fields := s.Fields()
	for _, o := range overrides {
		i, ok := s.index[o.Name]
		if !ok {
			return nil, fmt.Errorf("schema %s: cannot override unknown field %q", s.name, o.Name)
		}
		fields[i] = o
	}
	derived, err := New(name, fields...)
	if err != nil {
		return nil, err
	}
	derived.checks = append([]Check(nil), s.checks...)
	return derived, nil
}

// WithChecks returns a copy of the schema that also enforces checks.
func (s *Schema) WithChecks(checks ...Check) *Schema {
	out := *s
	out.checks = append(append([]Check(nil), s.checks...), checks...)
	return &out
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the field declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.clone()
	}
	return out
}

// Field returns the declaration for name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i].clone(), true
}

// Defaults returns every field set to its declared default.
func (s *Schema) Defaults() Values {
	out := make(Values, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = f.Default
	}
	return out
}

// Validate applies defaults for absent options and checks every supplied one.
// All violations are reported together; use FieldErrors to inspect them.
func (s *Schema) Validate(raw map[string]any) (Values, error) {
	out := s.Defaults()
	var errs error

	// sorted so the combined error is deterministic
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := raw[key]
		i, ok := s.index[key]
		if !ok {
			errs = multierr.Append(errs, &FieldError{Schema: s.name, Field: key, Value: v, Err: ErrUnknownField})
			continue
		}
		f := s.fields[i]
		if f.Internal {
			errs = multierr.Append(errs, &FieldError{Schema: s.name, Field: key, Value: v, Err: ErrInternalField})
			continue
		}
		val, err := f.check(v)
		if err != nil {
			fe := &FieldError{Schema: s.name, Field: key, Value: v, Err: err}
			if f.Kind == StringOptions {
				fe.Allowed = append([]string(nil), f.Options...)
			}
			errs = multierr.Append(errs, fe)
			continue
		}
		out[key] = val
	}

	if errs != nil {
		return nil, errs
	}

	for _, check := range s.checks {
		if fe := check(out); fe != nil {
			fe.Schema = s.name
			errs = multierr.Append(errs, fe)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}
