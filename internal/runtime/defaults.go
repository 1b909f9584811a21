package runtime

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/validation"
	"github.com/samber/lo"
)

// Defaults synthesizes random legal values for choice elements and grids.
// The "other" option is never chosen. Text, date and time elements are not
// supported.
type Defaults struct {
	rnd *rand.Rand
}

// NewDefaults creates a synthesizer. A nil rnd uses a randomly seeded source.
func NewDefaults(rnd *rand.Rand) *Defaults {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Defaults{rnd: rnd}
}

// Value returns a value for elem. It satisfies DefaultFunc.
func (d *Defaults) Value(elem domain.InputElement) (any, error) {
	switch e := elem.(type) {
	case *domain.Choice:
		return d.choice(e)
	case *domain.Grid:
		return d.grid(e)
	}
	h := elem.Header()
	return nil, fmt.Errorf("%s %q: %w", elem.Kind(), h.Name, domain.ErrNotImplemented)
}

func optionValues(options []domain.Option) []string {
	return lo.Map(options, func(o domain.Option, _ int) string { return o.Value })
}

// misconfigured is the value of an element no selection can satisfy.
func misconfigured(elem domain.InputElement) (any, error) {
	if elem.Required() {
		return nil, domain.NewValidationError(elem, domain.ErrMisconfigured)
	}
	return domain.Empty, nil
}

func (d *Defaults) choice(c *domain.Choice) (any, error) {
	values := optionValues(c.Options())
	if c.MultiChoice() {
		return d.checkboxes(c, values)
	}
	if len(values) == 0 {
		return misconfigured(c)
	}
	return d.pick(values, c.Required()), nil
}

// pick chooses one value uniformly. Optional elements may also stay empty.
func (d *Defaults) pick(values []string, required bool) any {
	n := len(values)
	if !required {
		n++
	}
	i := d.rnd.IntN(n)
	if i == len(values) {
		return domain.Empty
	}
	return values[i]
}

func (d *Defaults) checkboxes(c *domain.Choice, values []string) (any, error) {
	v := c.Validator
	if !v.Enabled() {
		if c.Required() && len(values) == 0 {
			return misconfigured(c)
		}
		return d.subset(values, c.Required()), nil
	}
	if c.IsMisconfigured() {
		return misconfigured(c)
	}
	n, _ := v.Count()
	switch v.Subtype {
	case validation.CheckboxExactly, validation.CheckboxAtLeast:
		if n > len(values) {
			// Only reachable through the "other" option.
			return misconfigured(c)
		}
		return d.sample(values, n), nil
	case validation.CheckboxAtMost:
		low := 1
		if !c.Required() {
			low = 0
		}
		high := min(n, len(values))
		if high < low {
			return misconfigured(c)
		}
		size := low + d.rnd.IntN(high-low+1)
		if size == 0 {
			return domain.Empty, nil
		}
		return d.sample(values, size), nil
	}
	return d.subset(values, c.Required()), nil
}

// subset keeps every value with probability 1/2, retrying until the result
// is non-empty when nonEmpty is set.
func (d *Defaults) subset(values []string, nonEmpty bool) []string {
	if nonEmpty && len(values) == 1 {
		return []string{values[0]}
	}
	for {
		out := lo.Filter(values, func(string, int) bool { return d.rnd.IntN(2) == 0 })
		if !nonEmpty || len(out) > 0 || len(values) == 0 {
			return out
		}
	}
}

// sample returns n distinct values in their original order.
func (d *Defaults) sample(values []string, n int) []string {
	picked := d.rnd.Perm(len(values))[:n]
	chosen := lo.SliceToMap(picked, func(i int) (int, bool) { return i, true })
	return lo.Filter(values, func(_ string, i int) bool { return chosen[i] })
}

func (d *Defaults) grid(g *domain.Grid) (any, error) {
	cols := optionValues(g.Columns())
	rows := len(g.Rows)

	if g.Validator.Enabled() && g.Validator.Subtype == validation.GridExclusive {
		if g.Validator.IsMisconfigured(g.Shape()) {
			return misconfigured(g)
		}
		return d.exclusive(g, cols), nil
	}

	if len(cols) == 0 {
		if g.Required() {
			return misconfigured(g)
		}
		return domain.Empty, nil
	}
	out := make([]any, rows)
	for i := range out {
		if g.MultiChoice() {
			out[i] = d.subset(cols, g.Required())
		} else {
			out[i] = d.pick(cols, g.Required())
		}
	}
	return out, nil
}

// exclusive assigns distinct columns to the rows. Rows left without a
// column stay empty; that only happens for optional grids.
func (d *Defaults) exclusive(g *domain.Grid, cols []string) []any {
	perm := d.rnd.Perm(len(cols))
	out := make([]any, len(g.Rows))
	for i := range out {
		switch {
		case i >= len(perm):
			out[i] = domain.Empty
		case g.MultiChoice():
			out[i] = []string{cols[perm[i]]}
		default:
			out[i] = cols[perm[i]]
		}
	}
	return out
}
