package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() []Field {
	return []Field{
		{Name: "name", Kind: String, Default: "space", Description: "a string"},
		{Name: "path", Kind: String, Default: nil, AllowNone: true, Description: "nullable string"},
		{Name: "size", Kind: PositiveInteger, Default: 8, Description: "a count"},
		{Name: "flag", Kind: Boolean, Default: false, Description: "a switch"},
		{Name: "side", Kind: StringOptions, Options: []string{"left", "right"}, Default: "right", Description: "a choice"},
		{Name: "computed", Kind: String, Default: "x", Internal: true, Description: "set later"},
	}
}

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New("test", testFields()...)
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"empty name", []Field{{Kind: String, Default: "a"}}},
		{"duplicate", []Field{{Name: "a", Kind: String, Default: "a"}, {Name: "a", Kind: String, Default: "b"}}},
		{"no options", []Field{{Name: "a", Kind: StringOptions, Default: "a"}}},
		{"default not in options", []Field{{Name: "a", Kind: StringOptions, Options: []string{"b"}, Default: "a"}}},
		{"non positive default", []Field{{Name: "a", Kind: PositiveInteger, Default: 0}}},
		{"null default", []Field{{Name: "a", Kind: String}}},
		{"unknown kind", []Field{{Name: "a", Kind: "float", Default: 1.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("bad", tt.fields...)
			assert.Error(t, err)
		})
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	s := newTestSchema(t)

	vals, err := s.Validate(nil)
	require.NoError(t, err)
	assert.Equal(t, s.Defaults(), vals)
	assert.Equal(t, "right", vals["side"])
	assert.Nil(t, vals["path"])
	assert.Equal(t, "x", vals["computed"])
}

func TestValidateAcceptsAndCoerces(t *testing.T) {
	s := newTestSchema(t)

	vals, err := s.Validate(map[string]any{
		"name": "characters",
		"path": "/tmp/vocab.txt",
		"size": 128.0,
		"flag": "true",
		"side": "left",
	})
	require.NoError(t, err)
	assert.Equal(t, "characters", vals["name"])
	assert.Equal(t, "/tmp/vocab.txt", vals["path"])
	assert.Equal(t, 128, vals["size"])
	assert.Equal(t, true, vals["flag"])
	assert.Equal(t, "left", vals["side"])

	vals, err = s.Validate(map[string]any{"size": "64", "path": nil})
	require.NoError(t, err)
	assert.Equal(t, 64, vals["size"])
	assert.Nil(t, vals["path"])

	vals, err = s.Validate(map[string]any{"size": int64(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, vals["size"])

	vals, err = s.Validate(map[string]any{"size": uint32(7), "flag": 1})
	require.NoError(t, err)
	assert.Equal(t, 7, vals["size"])
	assert.Equal(t, true, vals["flag"])

	vals, err = s.Validate(map[string]any{"flag": 0})
	require.NoError(t, err)
	assert.Equal(t, false, vals["flag"])
}

func TestValidateRejections(t *testing.T) {
	s := newTestSchema(t)

	tests := []struct {
		name  string
		field string
		value any
		want  error
	}{
		{"zero", "size", 0, ErrNotPositive},
		{"negative", "size", -1, ErrNotPositive},
		{"fraction", "size", 2.5, ErrInvalidType},
		{"bool as int", "size", true, ErrInvalidType},
		{"word as int", "size", "many", ErrInvalidType},
		{"not in options", "side", "middle", ErrNotInOptions},
		{"option wrong type", "side", 1, ErrInvalidType},
		{"string wrong type", "name", 7, ErrInvalidType},
		{"null not allowed", "name", nil, ErrNull},
		{"bad bool", "flag", "maybe", ErrInvalidType},
		{"int as bool", "flag", 2, ErrInvalidType},
		{"negative int as bool", "flag", -7, ErrInvalidType},
		{"float as bool", "flag", 0.5, ErrInvalidType},
		{"huge unsigned", "size", uint64(1 << 63), ErrInvalidType},
		{"unknown", "colour", "blue", ErrUnknownField},
		{"internal", "computed", "y", ErrInternalField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals, err := s.Validate(map[string]any{tt.field: tt.value})
			require.Error(t, err)
			assert.Nil(t, vals)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			fes := FieldErrors(err)
			require.Len(t, fes, 1)
			assert.Equal(t, tt.field, fes[0].Field)
			assert.Equal(t, tt.value, fes[0].Value)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateReportsAllowedSet(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate(map[string]any{"side": "middle"})
	fes := FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, []string{"left", "right"}, fes[0].Allowed)
	assert.Contains(t, err.Error(), "middle")
	assert.Contains(t, err.Error(), "left, right")
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate(map[string]any{"side": "up", "size": -4, "name": "ok"})
	fes := FieldErrors(err)
	require.Len(t, fes, 2)
	assert.Equal(t, "side", fes[0].Field)
	assert.Equal(t, "size", fes[1].Field)
}

func TestDeriveOverridesOneField(t *testing.T) {
	base := newTestSchema(t)

	derived, err := base.Derive("test_output", Field{
		Name: "side", Kind: StringOptions, Options: []string{"left", "right"}, Default: "left",
		Description: "a choice for outputs",
	})
	require.NoError(t, err)
	assert.Equal(t, "test_output", derived.Name())

	bd, dd := base.Defaults(), derived.Defaults()
	assert.Equal(t, "right", bd["side"])
	assert.Equal(t, "left", dd["side"])
	delete(bd, "side")
	delete(dd, "side")
	assert.Equal(t, bd, dd)

	// base is untouched and ordering is kept
	f, ok := base.Field("side")
	require.True(t, ok)
	assert.Equal(t, "right", f.Default)
	names := func(fs []Field) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, names(base.Fields()), names(derived.Fields()))
}

func TestDeriveRejectsUnknownOrInvalidOverride(t *testing.T) {
	base := newTestSchema(t)

	_, err := base.Derive("x", Field{Name: "nope", Kind: String, Default: "a"})
	assert.Error(t, err)

	_, err = base.Derive("x", Field{Name: "side", Kind: StringOptions, Options: []string{"left"}, Default: "up"})
	assert.Error(t, err)
}

func TestFieldsReturnsCopies(t *testing.T) {
	s := newTestSchema(t)

	fs := s.Fields()
	fs[4].Options[0] = "top"
	f, _ := s.Field("side")
	assert.Equal(t, []string{"left", "right"}, f.Options)
}

func TestChecksRunAfterFieldsAndSurviveDerive(t *testing.T) {
	distinct := func(v Values) *FieldError {
		if v["name"] == v["path"] {
			return &FieldError{Field: "path", Value: v["path"], Err: ErrConflict}
		}
		return nil
	}
	s := newTestSchema(t).WithChecks(distinct)

	_, err := s.Validate(map[string]any{"path": "space"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	fes := FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, "test", fes[0].Schema)

	// field errors short-circuit the checks
	_, err = s.Validate(map[string]any{"path": "space", "size": 0})
	assert.ErrorIs(t, err, ErrNotPositive)
	assert.NotErrorIs(t, err, ErrConflict)

	derived, err := s.Derive("derived")
	require.NoError(t, err)
	_, err = derived.Validate(map[string]any{"path": "space"})
	assert.ErrorIs(t, err, ErrConflict)

	// the base schema is not changed by WithChecks
	_, err = newTestSchema(t).Validate(map[string]any{"path": "space"})
	assert.NoError(t, err)
}
