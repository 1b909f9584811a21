// Package inspecttest provides a small in-memory form for the tests of the
// inspection adapters.
package inspecttest

import (
	"context"
	"testing"

	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/require"
)

// URL is the address of the fixture form.
const URL = "https://docs.google.com/forms/d/e/fixture/viewform"

// Engine drives a domain.Form with a runtime.Machine.
type Engine struct {
	form    *domain.Form
	machine *runtime.Machine
}

// NewEngine builds a three page form. "Route" on page 1 either continues
// to page 2, which asks for a required "Name" and submits, or skips to
// page 3 with an optional "Extra".
func NewEngine(t *testing.T) *Engine {
	t.Helper()
	form := domain.NewForm()
	form.URL = URL
	form.Title = "Survey"
	form.LastPage().Append(domain.NewChoice(domain.Header{ID: 1, Name: "Route"}, domain.KindRadio, 11, true, []domain.Option{
		{Value: "go", Action: domain.ActionNext, HasAction: true},
		{Value: "skip", Action: 300, HasAction: true},
	}, nil))

	form.AddPage(domain.NewPage(domain.Header{ID: 200, Name: "Two"}, domain.ActionNext))
	form.LastPage().Append(domain.NewText(domain.Header{ID: 2, Name: "Name"}, domain.KindShortText, 22, true, nil))

	form.AddPage(domain.NewPage(domain.Header{ID: 300, Name: "Three"}, domain.ActionSubmit))
	form.LastPage().Append(domain.NewText(domain.Header{ID: 3, Name: "Extra"}, domain.KindShortText, 33, false, nil))

	require.Empty(t, domain.ResolveGraph(form.Pages))
	return &Engine{form: form, machine: runtime.NewMachine(form)}
}

func (e *Engine) Model() *domain.Form { return e.form }

func (e *Engine) Path() []*domain.Page { return e.machine.Path() }

func (e *Engine) Fill(ctx context.Context, cb runtime.Callback, fillOptional bool) error {
	return e.machine.Fill(ctx, cb, fillOptional)
}

func (e *Engine) Reset() error {
	e.machine.Reset()
	return e.form.Reset()
}
