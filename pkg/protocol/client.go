package protocol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/gforms/internal/compiler"
	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/samber/lo"
)

// Client loads and submits forms.
type Client struct {
	http      ports.HTTPClient
	extractor ports.Extractor
	decoder   *compiler.Decoder
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	images    bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithLifecycleHooks registers submission observers.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithImageResolution makes Load look up the URL of every image element.
// Each page with images other than the first costs one extra request.
func WithImageResolution() Option {
	return func(c *Client) {
		c.images = true
	}
}

// NewClient creates a client using the given transport and page scraper.
func NewClient(http ports.HTTPClient, extractor ports.Extractor, opts ...Option) *Client {
	c := &Client{
		http:      http,
		extractor: extractor,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.decoder = compiler.NewDecoder(compiler.WithLogger(c.logger))
	return c
}

// Document is a loaded form together with the page it was loaded from.
type Document struct {
	Form     *domain.Form
	Warnings []compiler.Warning
	// FirstPage is the response the form was decoded from.
	FirstPage *ports.Response
}

// Load fetches and decodes the form at rawURL and applies its prefilled
// values. Prefilled values that do not fit an element are logged and the
// element is left empty.
func (c *Client) Load(ctx context.Context, rawURL string) (*Document, error) {
	resp, err := c.http.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", rawURL, err)
	}
	if err := CheckResponse(resp); err != nil {
		return nil, err
	}
	target, err := ParseURL(resp.URL)
	if err != nil {
		return nil, err
	}

	raw, ok := c.extractor.EmbeddedJSON(resp.Body)
	fbzx, okFbzx := c.extractor.HiddenInput(resp.Body, domain.KeyFbzx)
	history, okHistory := c.extractor.HiddenInput(resp.Body, domain.KeyHistory)
	draft, okDraft := c.extractor.HiddenInput(resp.Body, domain.KeyDraft)
	if !ok || !okFbzx || !okHistory || !okDraft {
		return nil, domain.NewAccessError(resp.URL, domain.ErrParse)
	}

	form, warnings, err := c.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	form.URL = rawURL
	form.Fbzx = fbzx
	form.History = history
	form.Draft = draft
	form.Prefilled = target.Prefilled
	if target.Edit {
		if form.Prefilled, err = PrefillFromDraft(draft); err != nil {
			return nil, domain.NewAccessError(resp.URL, err)
		}
	}
	if err := form.Reset(); err != nil {
		c.logger.Warn("prefilled values ignored", "url", rawURL, "err", err)
	}
	doc := &Document{Form: form, Warnings: warnings, FirstPage: resp}
	if c.images {
		if err := c.ResolveImages(ctx, doc); err != nil {
			return nil, err
		}
	}

	c.logger.Info("form loaded",
		"title", form.Title,
		"pages", len(form.Pages),
		"warnings", len(warnings),
		"edit", target.Edit,
	)
	return doc, nil
}

// Reload loads the form of doc again from its original URL.
func (c *Client) Reload(ctx context.Context, doc *Document) (*Document, error) {
	return c.Load(ctx, doc.Form.URL)
}

// ResolveImages sets the URL of the image elements of doc. Images of the
// first page are read from the page the form was loaded from; every other
// page holding images is fetched on its own. Images whose picture is not
// found on their page keep an empty URL.
func (c *Client) ResolveImages(ctx context.Context, doc *Document) error {
	for _, page := range doc.Form.Pages {
		images := page.Images()
		if len(images) == 0 {
			continue
		}
		resp := doc.FirstPage
		if page != doc.Form.Pages[0] {
			var err error
			if resp, err = c.fetchPage(ctx, doc, page); err != nil {
				return fmt.Errorf("resolve images of page %d: %w", page.Index+1, err)
			}
		}
		found := c.extractor.Images(resp.Body)
		for id, img := range images {
			img.URL = found[id]
		}
		if missing := lo.Without(lo.Keys(images), lo.Keys(found)...); len(missing) > 0 {
			c.logger.Warn("image urls not found", "page", page.Index+1, "elements", missing)
		}
	}
	return nil
}
