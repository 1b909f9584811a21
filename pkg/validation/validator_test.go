package validation_test

import (
	"testing"

	"github.com/aretw0/gforms/internal/wire"
	"github.com/aretw0/gforms/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *validation.Validator {
	t.Helper()
	raw, err := wire.Decode([]byte(doc))
	require.NoError(t, err)
	v, err := validation.Parse(raw)
	require.NoError(t, err)
	return v
}

func text(values ...string) [][]string {
	return [][]string{values}
}

func TestParse_Degrades(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"unknown type", `[42, 1]`, validation.ErrUnknownValidator},
		{"unknown subtype", `[1, 999, ["1"]]`, validation.ErrUnknownValidator},
		{"missing number", `[1, 1]`, validation.ErrBadArgs},
		{"not a number", `[1, 7, ["a", "b"]]`, validation.ErrBadArgs},
		{"bad regex", `[4, 301, ["("]]`, validation.ErrBadArgs},
		{"garbage", `"nope"`, validation.ErrUnknownValidator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := wire.Decode([]byte(tt.doc))
			require.NoError(t, err)

			v, err := validation.Parse(raw)
			assert.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, v)
			assert.False(t, v.Enabled())

			// A degraded validator accepts anything and is never misconfigured.
			assert.NoError(t, v.Validate(validation.Shape{Required: true}, text("whatever")))
			assert.False(t, v.IsMisconfigured(validation.Shape{Required: true}))
		})
	}
}

func TestNumberValidators(t *testing.T) {
	tests := []struct {
		doc   string
		value string
		ok    bool
	}{
		{`[1, 1, ["10"]]`, "11", true},
		{`[1, 1, ["10"]]`, "10", false},
		{`[1, 2, [10]]`, "10", true},
		{`[1, 3, ["10"]]`, "9.5", true},
		{`[1, 4, ["10"]]`, "10.01", false},
		{`[1, 5, ["3"]]`, "3.0", true},
		{`[1, 6, ["3"]]`, "3", false},
		{`[1, 7, ["1", "5"]]`, "5", true},
		{`[1, 7, ["1", "5"]]`, "6", false},
		{`[1, 8, ["1", "5"]]`, "0", true},
		{`[1, 8, ["1", "5"]]`, "3", false},
		{`[1, 9]`, " 42 ", true},
		{`[1, 9]`, "forty", false},
		{`[1, 10]`, "42", true},
		{`[1, 10]`, "4.2", false},
		{`[1, 1, ["0"]]`, "not a number", false},
	}
	for _, tt := range tests {
		t.Run(tt.doc+" "+tt.value, func(t *testing.T) {
			v := parse(t, tt.doc)
			err := v.Validate(validation.Shape{}, text(tt.value))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, validation.ErrInvalidValue)
			}
		})
	}
}

func TestTextAndRegexValidators(t *testing.T) {
	tests := []struct {
		doc   string
		value string
		ok    bool
	}{
		{`[2, 100, ["cat"]]`, "concatenate", true},
		{`[2, 100, ["cat"]]`, "dog", false},
		{`[2, 101, ["cat"]]`, "dog", true},
		{`[2, 102]`, "user@example.com", true},
		{`[2, 102]`, "user@example", false},
		{`[2, 103]`, "https://example.com/a?b=c", true},
		{`[2, 103]`, "example.org", true},
		{`[2, 103]`, "not a url", false},
		{`[4, 299, ["[0-9]+"]]`, "abc1", true},
		{`[4, 300, ["[0-9]+"]]`, "abc1", false},
		{`[4, 301, ["[a-z]+"]]`, "abc1", false},
		{`[4, 301, ["[a-z]+"]]`, "abc", true},
		{`[4, 302, ["[a-z]+"]]`, "abc1", true},
		{`[6, 202, ["3"]]`, "abc", true},
		{`[6, 202, ["3"]]`, "abcd", false},
		{`[6, 203, [2]]`, "й", false},
		{`[6, 203, [2]]`, "йй", true},
	}
	for _, tt := range tests {
		t.Run(tt.doc+" "+tt.value, func(t *testing.T) {
			v := parse(t, tt.doc)
			err := v.Validate(validation.Shape{}, text(tt.value))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, validation.ErrInvalidValue)
			}
		})
	}
}

func TestEmptyValueIsNotValidated(t *testing.T) {
	v := parse(t, `[1, 10]`)
	assert.NoError(t, v.Validate(validation.Shape{Required: true}, text()))
	assert.NoError(t, v.Validate(validation.Shape{Required: true}, nil))
}

func TestCheckboxExactly(t *testing.T) {
	v := parse(t, `[7, 204, ["2"]]`)
	shape := validation.Shape{Options: 3}

	require.False(t, v.IsMisconfigured(shape))
	assert.ErrorIs(t, v.Validate(shape, text("a")), validation.ErrInvalidChoiceCount)
	assert.NoError(t, v.Validate(shape, text("a", "b")))
	assert.ErrorIs(t, v.Validate(shape, text("a", "b", "c")), validation.ErrInvalidChoiceCount)
}

func TestCheckboxMisconfiguration(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		shape validation.Shape
		want  bool
	}{
		{"at least fits", `[7, 200, [3]]`, validation.Shape{Options: 3}, false},
		{"at least too many", `[7, 200, [4]]`, validation.Shape{Options: 3}, true},
		{"other counts as a choice", `[7, 200, [4]]`, validation.Shape{Options: 3, HasOther: true}, false},
		{"exactly too many", `[7, 204, [5]]`, validation.Shape{Options: 3, HasOther: true}, true},
		{"exactly zero", `[7, 204, [0]]`, validation.Shape{Options: 3}, true},
		{"at most zero", `[7, 201, [0]]`, validation.Shape{Options: 3}, true},
		{"at most", `[7, 201, [1]]`, validation.Shape{Options: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := parse(t, tt.doc)
			assert.Equal(t, tt.want, v.IsMisconfigured(tt.shape))
		})
	}

	t.Run("misconfigured rejects any selection", func(t *testing.T) {
		v := parse(t, `[7, 200, [4]]`)
		err := v.Validate(validation.Shape{Options: 3}, text("a", "b", "c"))
		assert.ErrorIs(t, err, validation.ErrMisconfigured)
	})
}

func TestNumberRangeMisconfiguration(t *testing.T) {
	v := parse(t, `[1, 7, ["100", "0"]]`)
	assert.True(t, v.IsMisconfigured(validation.Shape{}))
	assert.ErrorIs(t, v.Validate(validation.Shape{}, text("50")), validation.ErrMisconfigured)
}

func TestGridExclusiveColumns(t *testing.T) {
	v := parse(t, `[8, 205]`)

	t.Run("distinct columns", func(t *testing.T) {
		shape := validation.Shape{Required: true, Options: 3, Rows: 3}
		assert.NoError(t, v.Validate(shape, [][]string{{"a"}, {"b"}, {"c"}}))
	})

	t.Run("first repeated column is reported", func(t *testing.T) {
		shape := validation.Shape{Options: 3, Rows: 3}
		err := v.Validate(shape, [][]string{{"a"}, {"b"}, {"b"}})
		require.ErrorIs(t, err, validation.ErrSameColumn)

		var violation *validation.Violation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "b", violation.Column)
	})

	t.Run("misconfiguration is checked first", func(t *testing.T) {
		shape := validation.Shape{Required: true, Options: 2, Rows: 3}
		err := v.Validate(shape, [][]string{{"a"}, {"a"}, {}})
		assert.ErrorIs(t, err, validation.ErrMisconfigured)
	})

	t.Run("misconfiguration ignores multi choice", func(t *testing.T) {
		for _, tt := range []struct {
			shape validation.Shape
			want  bool
		}{
			{validation.Shape{Required: true, MultiChoice: true, Options: 2, Rows: 3}, true},
			{validation.Shape{Required: true, MultiChoice: true, Options: 3, Rows: 3}, false},
			{validation.Shape{MultiChoice: true, Options: 2, Rows: 3}, false},
		} {
			assert.Equal(t, tt.want, v.IsMisconfigured(tt.shape), "%+v", tt.shape)
		}
	})
}

func TestGridMisconfigured(t *testing.T) {
	for _, required := range []bool{false, true} {
		for _, multi := range []bool{false, true} {
			for cols := 1; cols <= 3; cols++ {
				for rows := 1; rows <= 3; rows++ {
					shape := validation.Shape{Required: required, MultiChoice: multi, Options: cols, Rows: rows}
					want := required && !multi && cols < rows
					assert.Equal(t, want, validation.GridMisconfigured(shape), "%+v", shape)
				}
			}
		}
	}
}

func TestViolationMessage(t *testing.T) {
	v := parse(t, `[6, 202, ["3"], "Too long!"]`)
	err := v.Validate(validation.Shape{}, text("abcdef"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too long!")
}
