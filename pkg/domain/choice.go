package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/gforms/pkg/validation"
)

// Choice is a Radio, Dropdown, Checkboxes or Scale question.
type Choice struct {
	input
	options []Option
	other   *Option

	// Validator is set for Checkboxes with a selection count constraint.
	Validator *validation.Validator
	// Low and High are the Scale labels.
	Low, High string

	chosen     []int
	otherValue *string
}

// NewChoice creates a choice question. other is the free-text option, if any.
func NewChoice(h Header, kind Kind, entryID int64, required bool, options []Option, other *Option) *Choice {
	c := &Choice{
		input:   input{base: base{head: h, kind: kind}, required: required, entryIDs: []int64{entryID}},
		options: options,
	}
	if other != nil {
		o := *other
		o.Other = true
		o.Value = ""
		c.other = &o
	}
	return c
}

// Options returns the fixed options, without the "other" option.
func (c *Choice) Options() []Option {
	return append([]Option(nil), c.options...)
}

// OtherOption returns the "other" option, if the element has one.
func (c *Choice) OtherOption() (Option, bool) {
	if c.other == nil {
		return Option{}, false
	}
	return *c.other, true
}

// MultiChoice reports whether several options may be selected.
func (c *Choice) MultiChoice() bool {
	return c.kind == KindCheckboxes
}

// Selected returns the selected fixed option values.
func (c *Choice) Selected() []string {
	out := make([]string, 0, len(c.chosen))
	for _, i := range c.chosen {
		out = append(out, c.options[i].Value)
	}
	return out
}

// OtherValue returns the "other" text and whether "other" is selected.
func (c *Choice) OtherValue() (string, bool) {
	if c.otherValue == nil {
		return "", false
	}
	return *c.otherValue, true
}

// Target returns the page transition of the current selection, nil if none.
func (c *Choice) Target() *Page {
	var target *Page
	for _, i := range c.chosen {
		if t := c.options[i].Target; t != nil {
			target = t
		}
	}
	if c.otherValue != nil && c.other.Target != nil {
		target = c.other.Target
	}
	return target
}

// HasActions reports whether any option carries a page transition.
func (c *Choice) HasActions() bool {
	for _, o := range c.actionOptions() {
		if o.HasAction {
			return true
		}
	}
	return false
}

func (c *Choice) actionOptions() []*Option {
	out := make([]*Option, 0, len(c.options)+1)
	for i := range c.options {
		out = append(out, &c.options[i])
	}
	if c.other != nil {
		out = append(out, c.other)
	}
	return out
}

// SetValue accepts Empty, a string, an Option, an int (Scale only) and,
// for Checkboxes, a list of those. A string matching no option selects
// "other" when the element has one.
func (c *Choice) SetValue(value any) error {
	choices, err := c.toChoiceList(value)
	if err != nil {
		return err
	}
	var (
		chosen []int
		other  *string
	)
	for _, choice := range choices {
		var text string
		switch v := choice.(type) {
		case Option:
			text = v.Value
			if !v.Other {
				i := c.find(text)
				if i < 0 {
					return newValueError(c, ErrInvalidChoice, choice)
				}
				chosen = append(chosen, i)
				continue
			}
		case string:
			text = v
			if i := c.find(text); i >= 0 {
				chosen = append(chosen, i)
				continue
			}
		}
		if c.other == nil {
			return newValueError(c, ErrInvalidChoice, choice)
		}
		if other != nil {
			e := newValueError(c, ErrDuplicateOther, choice)
			e.Details = fmt.Sprintf("already set to %q", *other)
			return e
		}
		other = &text
	}
	c.chosen = chosen
	c.otherValue = other
	c.touch()
	return nil
}

func (c *Choice) find(value string) int {
	for i, o := range c.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

func (c *Choice) toChoiceList(value any) ([]any, error) {
	switch v := value.(type) {
	case Sentinel:
		if v == Empty {
			return nil, nil
		}
	case string, Option:
		return []any{v}, nil
	case int:
		if c.kind == KindScale {
			return []any{strconv.Itoa(v)}, nil
		}
	case []string:
		if c.MultiChoice() {
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}
			return out, nil
		}
	case []Option:
		if c.MultiChoice() {
			out := make([]any, len(v))
			for i, o := range v {
				out[i] = o
			}
			return out, nil
		}
	case []any:
		if c.MultiChoice() {
			for _, item := range v {
				switch item.(type) {
				case string, Option:
				default:
					return nil, newValueError(c, ErrElementType, value)
				}
			}
			return v, nil
		}
	}
	return nil, newValueError(c, ErrElementType, value)
}

// Validate checks the required flag, an empty "other" and the count validator.
func (c *Choice) Validate() error {
	if c.required && len(c.chosen) == 0 {
		if c.otherValue == nil {
			return newValidationError(c, ErrRequired)
		}
		if *c.otherValue == "" {
			return newValidationError(c, ErrEmptyOther)
		}
	}
	if c.Validator != nil {
		if err := c.Validator.Validate(c.Shape(), [][]string{c.countedValues()}); err != nil {
			e := newValidationError(c, err)
			e.Value = c.countedValues()
			return e
		}
	}
	return nil
}

// IsMisconfigured reports whether no non-empty selection passes the validator.
func (c *Choice) IsMisconfigured() bool {
	return c.Validator != nil && c.Validator.IsMisconfigured(c.Shape())
}

// Shape describes the element for the validation engine.
func (c *Choice) Shape() validation.Shape {
	return validation.Shape{
		Required:    c.required,
		Options:     len(c.options),
		HasOther:    c.other != nil,
		Rows:        1,
		MultiChoice: c.MultiChoice(),
	}
}

// countedValues is the selection the payload carries: an "other" without
// text is not sent.
func (c *Choice) countedValues() []string {
	values := c.Selected()
	if c.otherValue != nil && *c.otherValue != "" {
		values = append(values, OtherOption)
	}
	return values
}

func (c *Choice) Payload() Payload {
	p := Payload{}
	key := EntryKey(c.entryID())
	if values := c.Selected(); len(values) > 0 {
		p[key] = values
	}
	if c.otherValue != nil && *c.otherValue != "" {
		p[key] = append(p[key], OtherOption)
		p[OtherKey(c.entryID())] = []string{*c.otherValue}
	}
	return p
}

func (c *Choice) Draft() []DraftEntry {
	values := c.Selected()
	hasOther := c.otherValue != nil && *c.otherValue != ""
	if hasOther {
		values = append(values, OtherOption)
	}
	if len(values) == 0 {
		return nil
	}
	entry := newDraftEntry(c.entryID(), values)
	if hasOther {
		entry = append(entry, *c.otherValue)
	}
	return []DraftEntry{entry}
}

func (c *Choice) Prefill(data map[int64][]string) error {
	values := data[c.entryID()]
	switch {
	case len(values) == 0:
		return c.SetValue(Empty)
	case c.MultiChoice():
		return c.SetValue(values)
	}
	return c.SetValue(values[0])
}

func (c *Choice) Answer() []string {
	parts := make([]string, 0, len(c.chosen)+1)
	for _, v := range c.Selected() {
		parts = append(parts, quote(v))
	}
	if c.otherValue != nil {
		parts = append(parts, fmt.Sprintf("Other: %q", *c.otherValue))
	}
	if len(parts) == 0 {
		return []string{"EMPTY"}
	}
	answer := []string{strings.Join(parts, ", ")}
	switch t := c.Target(); {
	case t == SubmitPage:
		answer = append(answer, "Go to SUBMIT")
	case t != nil:
		answer = append(answer, fmt.Sprintf("Go to page %d", t.Index+1))
	}
	return answer
}

func (c *Choice) Hints() []string {
	if c.kind == KindScale && len(c.options) > 0 {
		hint := fmt.Sprintf("%s - %s", c.options[0].Value, c.options[len(c.options)-1].Value)
		if c.Low != "" {
			hint = fmt.Sprintf("(%s) %s", c.Low, hint)
		}
		if c.High != "" {
			hint = fmt.Sprintf("%s (%s)", hint, c.High)
		}
		return []string{hint}
	}
	hints := make([]string, 0, len(c.options)+2)
	if c.Validator != nil {
		hints = append(hints, c.Validator.String())
	}
	for _, o := range c.actionOptions() {
		hints = append(hints, o.String())
	}
	return hints
}
