// Package runtime drives a decoded form: it walks the page graph under the
// current values, fills and validates the elements of the selected pages,
// and tracks which of them are known to be valid.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/domain"
)

// Callback returns the value for an element on the current path. It may
// return domain.Default, domain.Empty or domain.Unchanged.
type Callback func(elem domain.InputElement, pageIndex, elemIndex int) (any, error)

// DefaultFunc synthesizes a value for an element the callback left to Default.
type DefaultFunc func(elem domain.InputElement) (any, error)

// Machine is the fill/validate state machine of one form.
//
// It keeps the realized page path and, per element, the revision at which
// the element last passed validation. A form is validated when the path
// reaches the end of the form, still matches the transitions chosen by the
// current values, and every element on it passed validation at its current
// revision.
type Machine struct {
	form     *domain.Form
	defaults DefaultFunc
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	path          []*domain.Page
	selected      map[*domain.Page]bool
	validated     map[domain.InputElement]uint64
	foundFullPath bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithDefaults replaces the value synthesizer.
func WithDefaults(fn DefaultFunc) Option {
	return func(m *Machine) {
		m.defaults = fn
	}
}

// WithLifecycleHooks registers fill observers.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = l
	}
}

// NewMachine creates a state machine for form.
func NewMachine(form *domain.Form, opts ...Option) *Machine {
	m := &Machine{
		form:   form,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.defaults == nil {
		m.defaults = NewDefaults(nil).Value
	}
	m.Reset()
	return m
}

// Reset forgets the path and every validation result. A single page form
// has only one path, so it starts out as found.
func (m *Machine) Reset() {
	m.invalidatePath()
	m.validated = map[domain.InputElement]uint64{}
	if len(m.form.Pages) == 1 {
		_ = m.selectPage(m.form.Pages[0])
		m.foundFullPath = true
	}
}

func (m *Machine) invalidatePath() {
	m.path = nil
	m.selected = map[*domain.Page]bool{}
	m.foundFullPath = false
}

// selectPage appends p to the path. A page can be selected only once.
func (m *Machine) selectPage(p *domain.Page) error {
	if m.selected[p] {
		return fmt.Errorf("%w: page %d is reached twice", domain.ErrInfiniteLoop, p.Index+1)
	}
	m.selected[p] = true
	m.path = append(m.path, p)
	return nil
}

// Path returns the pages of the last walk.
func (m *Machine) Path() []*domain.Page {
	return append([]*domain.Page(nil), m.path...)
}

// Fill walks the form from the first page, asking cb for the value of every
// input element on the path. With a nil cb every element gets Default.
// Default values are synthesized for required elements, and for optional
// ones only when fillOptional is set; other optional elements are cleared.
func (m *Machine) Fill(ctx context.Context, cb Callback, fillOptional bool) error {
	if cb == nil {
		cb = func(domain.InputElement, int, int) (any, error) { return domain.Default, nil }
	}
	return m.walk(ctx, func(page *domain.Page, in domain.IndexedInput) error {
		value, err := cb(in.Element, page.Index, in.Index)
		if err != nil {
			return err
		}
		if value == nil {
			h := in.Element.Header()
			return fmt.Errorf("%s %q: %w", in.Element.Kind(), h.Name, domain.ErrNilCallbackValue)
		}

		synthesized := false
		if value == domain.Default {
			value = domain.Empty
			if in.Element.Required() || fillOptional {
				if value, err = m.defaults(in.Element); err != nil {
					return err
				}
				synthesized = true
			}
		}
		if value != domain.Unchanged {
			if err := in.Element.SetValue(value); err != nil {
				return err
			}
		}
		if m.hooks.OnElementFilled != nil {
			m.hooks.OnElementFilled(ctx, &domain.ElementEvent{
				EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventElementFilled},
				PageIndex:    page.Index,
				ElementIndex: in.Index,
				ElementID:    in.Element.Header().ID,
				Kind:         in.Element.Kind().String(),
				Synthesized:  synthesized,
			})
		}
		return nil
	})
}

// Validate walks the path chosen by the current values and validates every
// element that is not known to be valid. It is idempotent.
func (m *Machine) Validate(ctx context.Context) error {
	return m.walk(ctx, nil)
}

func (m *Machine) walk(ctx context.Context, visit func(*domain.Page, domain.IndexedInput) error) error {
	m.invalidatePath()
	page := m.form.Pages[0]
	for page != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.selectPage(page); err != nil {
			return err
		}
		if m.hooks.OnPageEnter != nil {
			m.hooks.OnPageEnter(ctx, &domain.PageEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPageEnter},
				PageIndex: page.Index,
			})
		}
		for _, in := range page.Inputs() {
			if visit != nil {
				if err := visit(page, in); err != nil {
					return err
				}
			}
			if err := m.validate(in.Element); err != nil {
				return err
			}
		}
		page = page.NextPage()
	}
	m.foundFullPath = true
	m.logger.Debug("form path resolved", "pages", len(m.path))
	return nil
}

func (m *Machine) validate(elem domain.InputElement) error {
	rev := elem.Revision()
	if r, ok := m.validated[elem]; ok && r == rev {
		return nil
	}
	if err := elem.Validate(); err != nil {
		delete(m.validated, elem)
		return err
	}
	m.validated[elem] = rev
	return nil
}

// IsValidated reports whether the form can be submitted as is.
func (m *Machine) IsValidated() bool {
	if !m.foundFullPath || len(m.path) == 0 || m.path[0] != m.form.Pages[0] {
		return false
	}
	for i, page := range m.path {
		var want *domain.Page
		if i+1 < len(m.path) {
			want = m.path[i+1]
		}
		if page.NextPage() != want {
			return false
		}
		for _, in := range page.Inputs() {
			if r, ok := m.validated[in.Element]; !ok || r != in.Element.Revision() {
				return false
			}
		}
	}
	return true
}
