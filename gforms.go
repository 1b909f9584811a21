package gforms

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/adapters/html"
	"github.com/aretw0/gforms/pkg/adapters/web"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/aretw0/gforms/pkg/protocol"
)

type (
	// Callback returns the value of an element while filling.
	Callback = runtime.Callback
	// DefaultFunc synthesizes the value of an element left to domain.Default.
	DefaultFunc = runtime.DefaultFunc
	// SubmitOptions control one submission.
	SubmitOptions = protocol.SubmitOptions
	// Result describes a successful submission.
	Result = protocol.Result
	// CaptchaHandler solves the captcha guarding a receipt.
	CaptchaHandler = protocol.CaptchaHandler
)

// Form is a loaded form together with its fill state.
type Form struct {
	client  *protocol.Client
	doc     *protocol.Document
	machine *runtime.Machine
	cfg     config
}

type config struct {
	http      ports.HTTPClient
	extractor ports.Extractor
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	rnd       *rand.Rand
	defaults  DefaultFunc
	images    bool
}

// Option defines a functional option for Load.
type Option func(*config)

// WithHTTPClient replaces the default cookie-keeping web client.
func WithHTTPClient(c ports.HTTPClient) Option {
	return func(cfg *config) {
		cfg.http = c
	}
}

// WithExtractor replaces the default HTML extractor.
func WithExtractor(e ports.Extractor) Option {
	return func(cfg *config) {
		cfg.extractor = e
	}
}

// WithLifecycleHooks registers fill and submission observers.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(cfg *config) {
		cfg.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithRand sets the source of synthesized default values.
func WithRand(rnd *rand.Rand) Option {
	return func(cfg *config) {
		cfg.rnd = rnd
	}
}

// WithDefaults replaces the synthesizer of default values. WithRand is
// ignored when it is set.
func WithDefaults(fn DefaultFunc) Option {
	return func(cfg *config) {
		cfg.defaults = fn
	}
}

// WithImageResolution looks up the URL of every image element while
// loading, at the cost of one request per page with images after the first.
func WithImageResolution() Option {
	return func(cfg *config) {
		cfg.images = true
	}
}

// Load fetches and decodes the form at rawURL.
func Load(ctx context.Context, rawURL string, opts ...Option) (*Form, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.http == nil {
		cfg.http = web.New()
	}
	if cfg.extractor == nil {
		cfg.extractor = html.New()
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.defaults == nil {
		cfg.defaults = runtime.NewDefaults(cfg.rnd).Value
	}

	clientOpts := []protocol.Option{
		protocol.WithLogger(cfg.logger),
		protocol.WithLifecycleHooks(cfg.hooks),
	}
	if cfg.images {
		clientOpts = append(clientOpts, protocol.WithImageResolution())
	}
	client := protocol.NewClient(cfg.http, cfg.extractor, clientOpts...)
	doc, err := client.Load(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	f := &Form{client: client, cfg: cfg}
	f.attach(doc)
	return f, nil
}

func (f *Form) attach(doc *protocol.Document) {
	f.doc = doc
	f.machine = runtime.NewMachine(doc.Form,
		runtime.WithDefaults(f.cfg.defaults),
		runtime.WithLifecycleHooks(f.cfg.hooks),
		runtime.WithLogger(f.cfg.logger),
	)
}

// Model returns the decoded form.
func (f *Form) Model() *domain.Form { return f.doc.Form }

// Warnings returns the decoding problems of elements that were kept as
// unknown or without a validator.
func (f *Form) Warnings() []error {
	out := make([]error, len(f.doc.Warnings))
	for i, w := range f.doc.Warnings {
		out[i] = w
	}
	return out
}

// Fill walks the form asking cb for every element on the path. A nil cb
// synthesizes every required value. See runtime.Machine.Fill.
func (f *Form) Fill(ctx context.Context, cb Callback, fillOptional bool) error {
	return f.machine.Fill(ctx, cb, fillOptional)
}

// Validate validates the elements on the path chosen by the current values.
func (f *Form) Validate(ctx context.Context) error {
	return f.machine.Validate(ctx)
}

// IsValidated reports whether the form can be submitted as is.
func (f *Form) IsValidated() bool { return f.machine.IsValidated() }

// Path returns the pages of the last fill or validation.
func (f *Form) Path() []*domain.Page { return f.machine.Path() }

// Reset restores the prefilled values and forgets validation.
func (f *Form) Reset() error {
	f.machine.Reset()
	return f.doc.Form.Reset()
}

// Clear empties every element and forgets validation.
func (f *Form) Clear() {
	f.doc.Form.Clear()
	f.machine.Reset()
}

// Reload fetches the form again, which renews the session tokens and drops
// every value.
func (f *Form) Reload(ctx context.Context) error {
	doc, err := f.client.Reload(ctx, f.doc)
	if err != nil {
		return err
	}
	f.attach(doc)
	return nil
}

// Submit sends the validated form.
func (f *Form) Submit(ctx context.Context, opts SubmitOptions) (*Result, error) {
	return f.client.Submit(ctx, f.doc, f.machine, opts)
}
