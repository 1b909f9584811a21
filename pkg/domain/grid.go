package domain

import (
	"fmt"
	"strings"

	"github.com/aretw0/gforms/pkg/validation"
)

// Grid is a RadioGrid or CheckboxGrid: one entry per row sharing a column list.
type Grid struct {
	input
	Rows      []string
	cols      []Option
	multi     bool
	Validator *validation.Validator

	values [][]string
}

// NewGrid creates a grid. entryIDs and rows are parallel slices.
func NewGrid(h Header, entryIDs []int64, rows []string, cols []Option, multi, required bool, v *validation.Validator) *Grid {
	kind := KindRadioGrid
	if multi {
		kind = KindCheckboxGrid
	}
	return &Grid{
		input:     input{base: base{head: h, kind: kind}, required: required, entryIDs: entryIDs},
		Rows:      rows,
		cols:      cols,
		multi:     multi,
		Validator: v,
		values:    make([][]string, len(entryIDs)),
	}
}

// Columns returns the shared column options.
func (g *Grid) Columns() []Option {
	return append([]Option(nil), g.cols...)
}

// MultiChoice reports whether a row accepts several columns.
func (g *Grid) MultiChoice() bool { return g.multi }

// Values returns a copy of the selected columns of every row.
func (g *Grid) Values() [][]string {
	out := make([][]string, len(g.values))
	for i, row := range g.values {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// IsMisconfigured reports whether the grid is required, single choice and
// has fewer columns than rows.
func (g *Grid) IsMisconfigured() bool {
	return validation.GridMisconfigured(g.Shape())
}

// Shape describes the grid for the validation engine.
func (g *Grid) Shape() validation.Shape {
	return validation.Shape{
		Required:    g.required,
		Options:     len(g.cols),
		Rows:        len(g.Rows),
		MultiChoice: g.multi,
	}
}

func (g *Grid) rowName(i int) string {
	if i < len(g.Rows) {
		return g.Rows[i]
	}
	return ""
}

// SetValue accepts Empty or one value per row. A row value is Empty, a
// column string or Option, or (CheckboxGrid only) a list of those.
func (g *Grid) SetValue(value any) error {
	if s, ok := value.(Sentinel); ok && s == Empty {
		g.values = make([][]string, len(g.entryIDs))
		g.touch()
		return nil
	}
	rows, ok := gridRows(value)
	if !ok {
		return newValueError(g, ErrElementType, value)
	}
	if len(rows) != len(g.entryIDs) {
		e := newValueError(g, ErrRowMismatch, value)
		e.Details = fmt.Sprintf("got %d rows, want %d", len(rows), len(g.entryIDs))
		return e
	}
	values := make([][]string, len(rows))
	for i, row := range rows {
		choices, err := g.rowChoices(row)
		if err != nil {
			return newValueError(g, err, row).atRow(i, g.rowName(i))
		}
		for _, choice := range choices {
			if !g.hasColumn(choice) {
				return newValueError(g, ErrInvalidChoice, choice).atRow(i, g.rowName(i))
			}
		}
		values[i] = choices
	}
	g.values = values
	g.touch()
	return nil
}

func gridRows(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []Option:
		out := make([]any, len(v))
		for i, o := range v {
			out[i] = o
		}
		return out, true
	case [][]string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func (g *Grid) rowChoices(row any) ([]string, error) {
	switch v := row.(type) {
	case Sentinel:
		if v == Empty {
			return nil, nil
		}
	case string:
		return []string{v}, nil
	case Option:
		return []string{v.Value}, nil
	case []string:
		if g.multi {
			return append([]string(nil), v...), nil
		}
	case []Option:
		if g.multi {
			out := make([]string, len(v))
			for i, o := range v {
				out[i] = o.Value
			}
			return out, nil
		}
	case []any:
		if g.multi {
			out := make([]string, 0, len(v))
			for _, item := range v {
				switch c := item.(type) {
				case string:
					out = append(out, c)
				case Option:
					out = append(out, c.Value)
				default:
					return nil, ErrElementType
				}
			}
			return out, nil
		}
	}
	return nil, ErrElementType
}

func (g *Grid) hasColumn(value string) bool {
	for _, c := range g.cols {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Validate requires every row of a required grid, then applies the validator.
func (g *Grid) Validate() error {
	if g.Validator != nil && g.Validator.IsMisconfigured(g.Shape()) {
		return newValidationError(g, ErrMisconfigured)
	}
	if g.required {
		for i, row := range g.values {
			if len(row) == 0 {
				return newValidationError(g, ErrRequired).atRow(i, g.rowName(i))
			}
		}
	}
	if g.Validator != nil {
		if err := g.Validator.Validate(g.Shape(), g.values); err != nil {
			return newValidationError(g, err)
		}
	}
	return nil
}

func (g *Grid) Payload() Payload {
	p := Payload{}
	for i, row := range g.values {
		if len(row) > 0 {
			p[EntryKey(g.entryIDs[i])] = append([]string(nil), row...)
		}
	}
	return p
}

func (g *Grid) Draft() []DraftEntry {
	var out []DraftEntry
	for i, row := range g.values {
		if len(row) > 0 {
			out = append(out, newDraftEntry(g.entryIDs[i], row))
		}
	}
	return out
}

func (g *Grid) Prefill(data map[int64][]string) error {
	rows := make([]any, len(g.entryIDs))
	for i, id := range g.entryIDs {
		values := data[id]
		switch {
		case len(values) == 0:
			rows[i] = Empty
		case g.multi:
			rows[i] = values
		default:
			rows[i] = values[0]
		}
	}
	return g.SetValue(rows)
}

func (g *Grid) Answer() []string {
	out := make([]string, len(g.values))
	for i, row := range g.values {
		value := "EMPTY"
		if len(row) > 0 {
			quoted := make([]string, len(row))
			for j, v := range row {
				quoted[j] = quote(v)
			}
			value = strings.Join(quoted, ", ")
		}
		out[i] = fmt.Sprintf("%s: %s", g.rowName(i), value)
	}
	return out
}

func (g *Grid) Hints() []string {
	var hints []string
	if g.Validator != nil {
		hints = append(hints, g.Validator.String())
	}
	cols := make([]string, len(g.cols))
	for i, c := range g.cols {
		cols[i] = c.Value
	}
	hints = append(hints, "| "+strings.Join(cols, " | ")+" |")
	for _, row := range g.Rows {
		hints = append(hints, "- "+row)
	}
	return hints
}
