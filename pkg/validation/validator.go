// Package validation mirrors the server-side constraints attached to text,
// checkbox and grid questions.
//
// A Validator whose arguments cannot be understood, or whose subtype is not
// recognized, is a permissive no-op: it never rejects a value and never
// reports a misconfiguration.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/aretw0/gforms/internal/wire"
	"github.com/shopspring/decimal"
)

// Type is the validator family.
type Type int

const (
	TypeNumber   Type = 1
	TypeText     Type = 2
	TypeRegex    Type = 4
	TypeLength   Type = 6
	TypeCheckbox Type = 7
	TypeGrid     Type = 8
)

// Subtype selects the constraint inside a family.
type Subtype int

const (
	NumberGT       Subtype = 1
	NumberGE       Subtype = 2
	NumberLT       Subtype = 3
	NumberLE       Subtype = 4
	NumberEQ       Subtype = 5
	NumberNE       Subtype = 6
	NumberRange    Subtype = 7
	NumberNotRange Subtype = 8
	NumberIsNumber Subtype = 9
	NumberIsInt    Subtype = 10

	TextContains    Subtype = 100
	TextNotContains Subtype = 101
	TextEmail       Subtype = 102
	TextURL         Subtype = 103

	CheckboxAtLeast Subtype = 200
	CheckboxAtMost  Subtype = 201
	LengthMax       Subtype = 202
	LengthMin       Subtype = 203
	CheckboxExactly Subtype = 204
	GridExclusive   Subtype = 205

	RegexContains    Subtype = 299
	RegexNotContains Subtype = 300
	RegexMatches     Subtype = 301
	RegexNotMatches  Subtype = 302
)

var (
	// ErrUnknownValidator marks a validator the engine does not understand.
	ErrUnknownValidator = errors.New("unknown validator")
	// ErrBadArgs marks a known validator with unusable arguments.
	ErrBadArgs = errors.New("bad validator arguments")

	ErrInvalidValue       = errors.New("value does not satisfy the validator")
	ErrInvalidChoiceCount = errors.New("invalid number of choices")
	ErrSameColumn         = errors.New("more than one response in a column")
	ErrMisconfigured      = errors.New("no valid value exists")
)

// argKind is the expected shape of Args for a subtype.
type argKind int

const (
	argNone argKind = iota
	argNumber
	argNumberPair
	argText
	argPattern
	argCount
)

var subtypes = map[Type]map[Subtype]argKind{
	TypeNumber: {
		NumberGT: argNumber, NumberGE: argNumber, NumberLT: argNumber, NumberLE: argNumber,
		NumberEQ: argNumber, NumberNE: argNumber,
		NumberRange: argNumberPair, NumberNotRange: argNumberPair,
		NumberIsNumber: argNone, NumberIsInt: argNone,
	},
	TypeText: {
		TextContains: argText, TextNotContains: argText,
		TextEmail: argNone, TextURL: argNone,
	},
	TypeRegex: {
		RegexContains: argPattern, RegexNotContains: argPattern,
		RegexMatches: argPattern, RegexNotMatches: argPattern,
	},
	TypeLength: {
		LengthMax: argCount, LengthMin: argCount,
	},
	TypeCheckbox: {
		CheckboxAtLeast: argCount, CheckboxAtMost: argCount, CheckboxExactly: argCount,
	},
	TypeGrid: {
		GridExclusive: argNone,
	},
}

// Validator is a decoded constraint.
//
// Args holds decimal.Decimal values for number validators, a string for text
// and regex validators, and an int for length and checkbox validators.
type Validator struct {
	Type     Type
	Subtype  Subtype
	Args     []any
	BadArgs  bool
	ErrorMsg string

	known   bool
	pattern *regexp.Regexp
}

// New builds a validator from already typed arguments.
// Arguments that do not fit the subtype set BadArgs.
func New(t Type, st Subtype, args []any, msg string) *Validator {
	v := &Validator{Type: t, Subtype: st, ErrorMsg: msg}
	kind, ok := subtypes[t][st]
	if !ok {
		v.Args = args
		return v
	}
	v.known = true
	v.Args, v.BadArgs = normalizeArgs(kind, args)
	if !v.BadArgs && kind == argPattern {
		re, err := compilePattern(st, v.Args[0].(string))
		if err != nil {
			v.BadArgs = true
		} else {
			v.pattern = re
		}
	}
	return v
}

// Parse decodes the wire form [type, subtype, args?, message?].
// It always returns a usable validator; the error is a non-fatal warning
// wrapping ErrUnknownValidator or ErrBadArgs.
func Parse(raw any) (*Validator, error) {
	t, okType := wire.Int(wire.Get(raw, 0))
	st, okSub := wire.Int(wire.Get(raw, 1))
	if !okType || !okSub {
		return &Validator{}, fmt.Errorf("%w: %v", ErrUnknownValidator, raw)
	}
	var args []any
	if arr, ok := wire.Array(wire.Get(raw, 2)); ok {
		args = arr
	}
	v := New(Type(t), Subtype(st), args, wire.StringOr(wire.Get(raw, 3), ""))
	switch {
	case !v.known:
		return v, fmt.Errorf("%w: type %d subtype %d", ErrUnknownValidator, t, st)
	case v.BadArgs:
		return v, fmt.Errorf("%w: type %d subtype %d args %v", ErrBadArgs, t, st, args)
	}
	return v, nil
}

// Enabled reports whether the validator takes part in validation.
func (v *Validator) Enabled() bool {
	return v != nil && v.known && !v.BadArgs
}

func normalizeArgs(kind argKind, args []any) ([]any, bool) {
	switch kind {
	case argNone:
		return nil, false
	case argNumber, argNumberPair:
		n := 1
		if kind == argNumberPair {
			n = 2
		}
		if len(args) < n {
			return args, true
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			d, ok := toDecimal(args[i])
			if !ok {
				return args, true
			}
			out[i] = d
		}
		return out, false
	case argText, argPattern:
		if len(args) < 1 {
			return args, true
		}
		s, ok := args[0].(string)
		if !ok {
			return args, true
		}
		return []any{s}, false
	case argCount:
		if len(args) < 1 {
			return args, true
		}
		n, ok := wire.Int(args[0])
		if !ok || n < 0 {
			return args, true
		}
		return []any{int(n)}, false
	}
	return args, true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	case fmt.Stringer:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	}
	return decimal.Decimal{}, false
}

func compilePattern(st Subtype, pattern string) (*regexp.Regexp, error) {
	if st == RegexMatches || st == RegexNotMatches {
		pattern = `^(?:` + pattern + `)$`
	}
	return regexp.Compile(pattern)
}

func (v *Validator) number(i int) decimal.Decimal {
	return v.Args[i].(decimal.Decimal)
}

func (v *Validator) text() string {
	return v.Args[0].(string)
}

func (v *Validator) count() int {
	return v.Args[0].(int)
}

// Count returns the bound of a checkbox count or text length validator.
func (v *Validator) Count() (int, bool) {
	if !v.Enabled() {
		return 0, false
	}
	switch v.Type {
	case TypeCheckbox, TypeLength:
		return v.count(), true
	}
	return 0, false
}

// String is a short human readable description used in hints.
func (v *Validator) String() string {
	if !v.Enabled() {
		return "! Unknown validator !"
	}
	switch v.Subtype {
	case NumberGT:
		return fmt.Sprintf("Number > %s", v.number(0))
	case NumberGE:
		return fmt.Sprintf("Number >= %s", v.number(0))
	case NumberLT:
		return fmt.Sprintf("Number < %s", v.number(0))
	case NumberLE:
		return fmt.Sprintf("Number <= %s", v.number(0))
	case NumberEQ:
		return fmt.Sprintf("Number == %s", v.number(0))
	case NumberNE:
		return fmt.Sprintf("Number != %s", v.number(0))
	case NumberRange:
		return fmt.Sprintf("Number in [%s, %s]", v.number(0), v.number(1))
	case NumberNotRange:
		return fmt.Sprintf("Number not in [%s, %s]", v.number(0), v.number(1))
	case NumberIsNumber:
		return "Number"
	case NumberIsInt:
		return "Whole number"
	case TextContains:
		return fmt.Sprintf("Contains %q", v.text())
	case TextNotContains:
		return fmt.Sprintf("Doesn't contain %q", v.text())
	case TextEmail:
		return "Email"
	case TextURL:
		return "URL"
	case RegexContains:
		return fmt.Sprintf("Contains /%s/", v.text())
	case RegexNotContains:
		return fmt.Sprintf("Doesn't contain /%s/", v.text())
	case RegexMatches:
		return fmt.Sprintf("Matches /%s/", v.text())
	case RegexNotMatches:
		return fmt.Sprintf("Doesn't match /%s/", v.text())
	case LengthMax:
		return fmt.Sprintf("Max length %d", v.count())
	case LengthMin:
		return fmt.Sprintf("Min length %d", v.count())
	case CheckboxAtLeast:
		return fmt.Sprintf("Select at least %d", v.count())
	case CheckboxAtMost:
		return fmt.Sprintf("Select at most %d", v.count())
	case CheckboxExactly:
		return fmt.Sprintf("Select exactly %d", v.count())
	case GridExclusive:
		return "! Max 1 response per column !"
	}
	return "! Unknown validator !"
}
