package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Shape describes the element a validator is attached to.
type Shape struct {
	Required    bool
	Options     int
	HasOther    bool
	Rows        int
	MultiChoice bool
}

// Available is the number of distinct selectable choices, "other" included.
func (s Shape) Available() int {
	if s.HasOther {
		return s.Options + 1
	}
	return s.Options
}

// Violation is returned when a value breaks a validator.
type Violation struct {
	Validator *Validator
	Value     string
	Column    string
	Err       error
}

func (e *Violation) Error() string {
	if e.Validator != nil && e.Validator.ErrorMsg != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Validator.ErrorMsg)
	}
	if e.Column != "" {
		return fmt.Sprintf("%v (column %q)", e.Err, e.Column)
	}
	if e.Validator != nil {
		return fmt.Sprintf("%v (%s)", e.Err, e.Validator)
	}
	return e.Err.Error()
}

func (e *Violation) Unwrap() error { return e.Err }

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`^(?i:[a-z][a-z0-9+.-]*://)?[^\s/?#.]+(\.[^\s/?#.]+)+([/?#]\S*)?$`)
)

// IsMisconfigured reports whether no non-empty value can satisfy v on an
// element of the given shape.
func (v *Validator) IsMisconfigured(s Shape) bool {
	if !v.Enabled() {
		return false
	}
	switch v.Subtype {
	case NumberRange:
		return v.number(0).GreaterThan(v.number(1))
	case LengthMax:
		return v.count() < 1
	case CheckboxAtLeast:
		return v.count() > s.Available()
	case CheckboxExactly:
		return v.count() > s.Available() || v.count() == 0
	case CheckboxAtMost:
		return v.count() == 0
	case GridExclusive:
		// Every row of a required grid needs its own column, whatever the
		// number of columns a row accepts.
		return s.Required && s.Options < s.Rows
	}
	return false
}

// GridMisconfigured reports whether a grid cannot be answered: it is
// required, single choice and has fewer columns than rows.
func GridMisconfigured(s Shape) bool {
	return s.Required && !s.MultiChoice && s.Options < s.Rows
}

// Validate checks the current values of an element, one list per entry.
// Empty entries are accepted; required checks belong to the element.
func (v *Validator) Validate(s Shape, values [][]string) error {
	if !v.Enabled() {
		return nil
	}
	switch v.Type {
	case TypeNumber, TypeText, TypeRegex, TypeLength:
		if len(values) == 0 || len(values[0]) == 0 {
			return nil
		}
		if v.IsMisconfigured(s) {
			return &Violation{Validator: v, Value: values[0][0], Err: ErrMisconfigured}
		}
		return v.validateText(values[0][0])
	case TypeCheckbox:
		if len(values) == 0 || len(values[0]) == 0 {
			return nil
		}
		if v.IsMisconfigured(s) {
			return &Violation{Validator: v, Err: ErrMisconfigured}
		}
		return v.validateCount(len(values[0]))
	case TypeGrid:
		if v.IsMisconfigured(s) {
			return &Violation{Validator: v, Err: ErrMisconfigured}
		}
		return v.validateColumns(values)
	}
	return nil
}

func (v *Validator) validateText(value string) error {
	ok := true
	switch v.Type {
	case TypeNumber:
		ok = v.checkNumber(value)
	case TypeText:
		switch v.Subtype {
		case TextContains:
			ok = strings.Contains(value, v.text())
		case TextNotContains:
			ok = !strings.Contains(value, v.text())
		case TextEmail:
			ok = emailPattern.MatchString(value)
		case TextURL:
			ok = urlPattern.MatchString(value)
		}
	case TypeRegex:
		matched := v.pattern.MatchString(value)
		switch v.Subtype {
		case RegexContains, RegexMatches:
			ok = matched
		case RegexNotContains, RegexNotMatches:
			ok = !matched
		}
	case TypeLength:
		n := utf8.RuneCountInString(value)
		switch v.Subtype {
		case LengthMax:
			ok = n <= v.count()
		case LengthMin:
			ok = n >= v.count()
		}
	}
	if !ok {
		return &Violation{Validator: v, Value: value, Err: ErrInvalidValue}
	}
	return nil
}

func (v *Validator) checkNumber(value string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	switch v.Subtype {
	case NumberGT:
		return d.GreaterThan(v.number(0))
	case NumberGE:
		return d.GreaterThanOrEqual(v.number(0))
	case NumberLT:
		return d.LessThan(v.number(0))
	case NumberLE:
		return d.LessThanOrEqual(v.number(0))
	case NumberEQ:
		return d.Equal(v.number(0))
	case NumberNE:
		return !d.Equal(v.number(0))
	case NumberRange:
		return d.GreaterThanOrEqual(v.number(0)) && d.LessThanOrEqual(v.number(1))
	case NumberNotRange:
		return d.LessThan(v.number(0)) || d.GreaterThan(v.number(1))
	case NumberIsNumber:
		return true
	case NumberIsInt:
		return d.IsInteger()
	}
	return true
}

func (v *Validator) validateCount(n int) error {
	ok := true
	switch v.Subtype {
	case CheckboxAtLeast:
		ok = n >= v.count()
	case CheckboxAtMost:
		ok = n <= v.count()
	case CheckboxExactly:
		ok = n == v.count()
	}
	if !ok {
		return &Violation{Validator: v, Value: fmt.Sprint(n), Err: ErrInvalidChoiceCount}
	}
	return nil
}

func (v *Validator) validateColumns(rows [][]string) error {
	seen := make(map[string]int)
	for _, row := range rows {
		for _, col := range row {
			seen[col]++
			if seen[col] > 1 {
				return &Violation{Validator: v, Column: col, Err: ErrSameColumn}
			}
		}
	}
	return nil
}
