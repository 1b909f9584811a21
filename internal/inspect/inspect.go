// Package inspect serves read-only views of a loaded form, and dry-run
// validation of answers against it, to the HTTP and MCP adapters.
package inspect

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/gforms/internal/answers"
	"github.com/aretw0/gforms/internal/dto"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/internal/presentation/graph"
	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/domain"
)

// Engine is the loaded form being inspected.
type Engine interface {
	Model() *domain.Form
	Path() []*domain.Page
	Fill(ctx context.Context, cb runtime.Callback, fillOptional bool) error
	Reset() error
}

// Report is the outcome of a dry-run validation.
type Report struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	// Path holds the indices of the pages the answers lead through.
	Path []int    `json:"path"`
	Form dto.Form `json:"form"`
}

// Inspector serializes access to an Engine.
type Inspector struct {
	mu     sync.Mutex
	engine Engine
	logger *slog.Logger
}

// New creates an Inspector. A nil logger discards logs.
func New(engine Engine, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Inspector{engine: engine, logger: logger}
}

// URL returns the address of the inspected form.
func (i *Inspector) URL() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.engine.Model().URL
}

// Describe returns the form structure, with the current answers when
// withAnswers is set.
func (i *Inspector) Describe(withAnswers bool) dto.Form {
	i.mu.Lock()
	defer i.mu.Unlock()
	return dto.FromForm(i.engine.Model(), withAnswers)
}

// Graph returns the mermaid page graph.
func (i *Inspector) Graph() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return graph.GenerateMermaid(i.engine.Model().Pages, nil)
}

// Validate fills the form from f and reports the result. The form is reset
// afterwards, so the answers never leak into later calls.
func (i *Inspector) Validate(ctx context.Context, f *answers.File) Report {
	i.mu.Lock()
	defer i.mu.Unlock()
	defer func() {
		if err := i.engine.Reset(); err != nil {
			i.logger.Warn("reset after validation", "err", err)
		}
	}()

	var report Report
	if err := i.engine.Fill(ctx, f.Callback(), f.FillOptional); err != nil {
		report.Error = err.Error()
	} else {
		report.Valid = true
	}
	for _, p := range i.engine.Path() {
		report.Path = append(report.Path, p.Index)
	}
	report.Form = dto.FromForm(i.engine.Model(), true)
	return report
}
