package domain

import (
	"strings"

	"github.com/aretw0/gforms/pkg/validation"
)

// Text is a ShortText or Paragraph question.
type Text struct {
	input
	value     string
	Validator *validation.Validator
}

// NewText creates a text question. kind must be KindShortText or KindParagraph.
func NewText(h Header, kind Kind, entryID int64, required bool, v *validation.Validator) *Text {
	return &Text{
		input:     input{base: base{head: h, kind: kind}, required: required, entryIDs: []int64{entryID}},
		Validator: v,
	}
}

// Value returns the current text, "" when unset.
func (t *Text) Value() string { return t.value }

// SetValue accepts a string or Empty. The empty string clears the element.
func (t *Text) SetValue(value any) error {
	switch v := value.(type) {
	case Sentinel:
		if v != Empty {
			return newValueError(t, ErrElementType, value)
		}
		t.set("")
	case string:
		t.set(v)
	default:
		return newValueError(t, ErrElementType, value)
	}
	return nil
}

func (t *Text) set(v string) {
	t.value = v
	t.touch()
}

// Validate checks the required flag, newlines in short answers and the validator.
func (t *Text) Validate() error {
	if t.value == "" {
		if t.required {
			return newValidationError(t, ErrRequired)
		}
		return nil
	}
	if t.kind == KindShortText && strings.Contains(t.value, "\n") {
		e := newValidationError(t, ErrInvalidText)
		e.Value = t.value
		e.Details = "input contains newlines"
		return e
	}
	if t.Validator != nil {
		if err := t.Validator.Validate(t.shape(), [][]string{{t.value}}); err != nil {
			e := newValidationError(t, err)
			e.Value = t.value
			return e
		}
	}
	return nil
}

// IsMisconfigured reports whether no non-empty text can pass the validator.
func (t *Text) IsMisconfigured() bool {
	return t.Validator != nil && t.Validator.IsMisconfigured(t.shape())
}

func (t *Text) shape() validation.Shape {
	return validation.Shape{Required: t.required}
}

func (t *Text) Payload() Payload {
	if t.value == "" {
		return Payload{}
	}
	return Payload{EntryKey(t.entryID()): {t.value}}
}

func (t *Text) Draft() []DraftEntry {
	if t.value == "" {
		return nil
	}
	return []DraftEntry{newDraftEntry(t.entryID(), []string{t.value})}
}

func (t *Text) Prefill(data map[int64][]string) error {
	values := data[t.entryID()]
	if len(values) == 0 {
		return t.SetValue(Empty)
	}
	return t.SetValue(values[0])
}

func (t *Text) Answer() []string {
	if t.value == "" {
		return []string{"EMPTY"}
	}
	return []string{quote(t.value)}
}

func (t *Text) Hints() []string {
	if t.Validator != nil {
		return []string{t.Validator.String()}
	}
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
