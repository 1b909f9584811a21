// Package compiler turns the positional JSON document embedded in a form page
// into the typed model of pkg/domain.
//
// Decoding is total: malformed optional fields fall back to defaults, and
// elements or validators that cannot be understood degrade to a permissive
// no-op while a Warning is recorded. Only a document without the top-level
// form block is rejected.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/internal/wire"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/validation"
	"github.com/samber/lo"
)

// Document offsets.
const (
	docForm           = 1
	docName           = 3
	docSigninRequired = 18

	formDescription = 0
	formElements    = 1
	formTitle       = 8
)

// Element offsets.
const (
	elemID          = 0
	elemName        = 1
	elemDescription = 2
	elemType        = 3
	elemEntries     = 4
	elemPrevAction  = 5
	elemVideo       = 6
	elemImage       = 6
	elemGridValid   = 8

	videoLink = 3
)

// Image offsets.
const (
	imageID     = 0
	imageStyle  = 2
	styleWidth  = 0
	styleHeight = 1
	styleAlign  = 2
)

// Entry offsets.
const (
	entryID        = 0
	entryOptions   = 1
	entryRequired  = 2
	entryRowName   = 3
	entryLabels    = 3
	entryValidator = 4
	entryTimeFlags = 6
	entryDateFlags = 7
	entryGridMulti = 11
)

// Option offsets.
const (
	optionValue  = 0
	optionAction = 2
	optionOther  = 4
)

// Type tags of the wire format.
const (
	tagShort      = 0
	tagParagraph  = 1
	tagRadio      = 2
	tagDropdown   = 3
	tagCheckboxes = 4
	tagScale      = 5
	tagComment    = 6
	tagGrid       = 7
	tagPage       = 8
	tagDate       = 9
	tagTime       = 10
	tagImage      = 11
	tagVideo      = 12
	tagFileUpload = 13
)

var (
	// ErrUnknownElement marks an element whose type tag is not recognized.
	ErrUnknownElement = errors.New("unknown element type")
	// ErrMalformedElement marks an input element without usable entries.
	ErrMalformedElement = errors.New("malformed element")
)

// Warning is a non-fatal decoding problem. The element it refers to was kept
// in a degraded form.
type Warning struct {
	ElementID int64
	Tag       int64
	Err       error
}

func (w Warning) Error() string {
	return fmt.Sprintf("element %d (type %d): %v", w.ElementID, w.Tag, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// Decoder converts form documents.
type Decoder struct {
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger warnings are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses raw JSON with a default decoder.
func Decode(raw []byte) (*domain.Form, []Warning, error) {
	return NewDecoder().Decode(raw)
}

// Decode parses the raw JSON document.
func (d *Decoder) Decode(raw []byte) (*domain.Form, []Warning, error) {
	doc, err := wire.Decode(raw)
	if err != nil {
		return nil, nil, domain.NewAccessError("", fmt.Errorf("%w: %w", domain.ErrParse, err))
	}
	return d.DecodeDocument(doc)
}

// DecodeDocument builds a form from an already parsed document.
func (d *Decoder) DecodeDocument(doc any) (*domain.Form, []Warning, error) {
	block, ok := wire.Array(wire.Get(doc, docForm))
	if !ok {
		return nil, nil, domain.NewAccessError("", fmt.Errorf("%w: missing form block", domain.ErrParse))
	}

	form := domain.NewForm()
	form.Name = wire.StringOr(wire.Get(doc, docName), "")
	form.Title = wire.StringOr(wire.Get(block, formTitle), "")
	if form.Title == "" {
		form.Title = form.Name
	}
	form.Description = wire.StringOr(wire.Get(block, formDescription), "")
	form.Settings = decodeSettings(block)
	form.SigninRequired = wire.Truthy(wire.Get(doc, docSigninRequired))

	if form.Settings.CollectEmails.Enabled() {
		form.Email = domain.NewUserEmail()
		form.Pages[0].Append(form.Email)
	}

	var warnings []Warning
	elements, _ := wire.Array(wire.Get(block, formElements))
	for _, raw := range elements {
		elem, warn := d.decodeElement(raw)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		if page, ok := elem.(*domain.Page); ok {
			form.AddPage(page)
			continue
		}
		form.LastPage().Append(elem)
	}

	for _, err := range domain.ResolveGraph(form.Pages) {
		warnings = append(warnings, Warning{Tag: tagPage, Err: err})
	}
	for _, w := range warnings {
		d.logger.Warn("degraded form element",
			"element_id", w.ElementID,
			"tag", w.Tag,
			"err", w.Err,
		)
	}
	d.logger.Debug("form decoded",
		"title", form.Title,
		"pages", len(form.Pages),
		"inputs", len(form.Inputs()),
	)
	return form, warnings, nil
}

func decodeHeader(elem any) domain.Header {
	return domain.Header{
		ID:          wire.IntOr(wire.Get(elem, elemID), 0),
		Name:        wire.StringOr(wire.Get(elem, elemName), ""),
		Description: wire.StringOr(wire.Get(elem, elemDescription), ""),
	}
}

// decodeElement never fails. An element it cannot understand is returned as
// an Unknown static element together with a warning.
func (d *Decoder) decodeElement(elem any) (domain.Element, *Warning) {
	h := decodeHeader(elem)
	tag, ok := wire.Int(wire.Get(elem, elemType))
	if !ok {
		return domain.NewStatic(h, domain.KindUnknown), &Warning{ElementID: h.ID, Tag: -1, Err: ErrUnknownElement}
	}
	warn := func(err error) *Warning {
		return &Warning{ElementID: h.ID, Tag: tag, Err: err}
	}

	switch tag {
	case tagComment:
		return domain.NewStatic(h, domain.KindComment), nil
	case tagImage:
		s := domain.NewStatic(h, domain.KindImage)
		s.Image = decodeImage(wire.Get(elem, elemImage))
		return s, nil
	case tagFileUpload:
		return domain.NewStatic(h, domain.KindFileUpload), nil
	case tagVideo:
		s := domain.NewStatic(h, domain.KindVideo)
		s.Link = wire.StringOr(wire.Get(elem, elemVideo, videoLink), "")
		return s, nil
	case tagPage:
		prev := domain.ActionNext
		if a, ok := wire.Int(wire.Get(elem, elemPrevAction)); ok {
			prev = a
		}
		return domain.NewPage(h, prev), nil
	}

	entries, _ := wire.Array(wire.Get(elem, elemEntries))
	if len(entries) == 0 || wire.Len(entries[0]) == 0 {
		switch tag {
		case tagShort, tagParagraph, tagRadio, tagDropdown, tagCheckboxes, tagScale, tagGrid, tagDate, tagTime:
			return domain.NewStatic(h, domain.KindUnknown), warn(ErrMalformedElement)
		}
		return domain.NewStatic(h, domain.KindUnknown), warn(ErrUnknownElement)
	}
	entry := entries[0]
	id := wire.IntOr(wire.Get(entry, entryID), 0)
	required := wire.Truthy(wire.Get(entry, entryRequired))

	switch tag {
	case tagShort, tagParagraph:
		kind := domain.KindShortText
		if tag == tagParagraph {
			kind = domain.KindParagraph
		}
		v, err := parseValidator(wire.Get(entry, entryValidator, 0))
		t := domain.NewText(h, kind, id, required, v)
		return t, warnIf(err, warn)

	case tagRadio, tagDropdown, tagCheckboxes, tagScale:
		return d.decodeChoice(h, tag, entry, required, warn)

	case tagGrid:
		return d.decodeGrid(h, elem, entries, warn)

	case tagDate:
		withTime := wire.Truthy(wire.Get(entry, entryDateFlags, 0))
		hasYear := wire.Truthy(wire.Get(entry, entryDateFlags, 1))
		return domain.NewDate(h, id, required, withTime, hasYear), nil

	case tagTime:
		duration := wire.Truthy(wire.Get(entry, entryTimeFlags, 0))
		return domain.NewTime(h, id, required, duration), nil
	}
	return domain.NewStatic(h, domain.KindUnknown), warn(ErrUnknownElement)
}

// decodeImage reads [id, _, [width, height, alignment?]]. It returns nil
// when the element has no image data.
func decodeImage(data any) *domain.Image {
	if wire.Len(data) == 0 {
		return nil
	}
	img := &domain.Image{
		ID:     wire.StringOr(wire.Get(data, imageID), ""),
		Width:  wire.IntOr(wire.Get(data, imageStyle, styleWidth), 0),
		Height: wire.IntOr(wire.Get(data, imageStyle, styleHeight), 0),
	}
	if a, ok := wire.Int(wire.Get(data, imageStyle, styleAlign)); ok {
		img.Alignment = domain.Alignment(a)
		img.HasAlignment = true
	}
	return img
}

func (d *Decoder) decodeChoice(h domain.Header, tag int64, entry any, required bool, warn func(error) *Warning) (domain.Element, *Warning) {
	raw, _ := wire.Array(wire.Get(entry, entryOptions))
	options := lo.Map(raw, func(o any, _ int) domain.Option { return decodeOption(o) })

	kind := map[int64]domain.Kind{
		tagRadio:      domain.KindRadio,
		tagDropdown:   domain.KindDropdown,
		tagCheckboxes: domain.KindCheckboxes,
		tagScale:      domain.KindScale,
	}[tag]

	// Only Radio and Dropdown navigate; Scale and Checkboxes ignore actions.
	if kind == domain.KindScale || kind == domain.KindCheckboxes {
		options = lo.Map(options, func(o domain.Option, _ int) domain.Option {
			o.HasAction, o.Action = false, 0
			return o
		})
	}

	// Radio and Checkboxes may have one free-text option.
	var other *domain.Option
	if kind == domain.KindRadio || kind == domain.KindCheckboxes {
		if o, _, ok := lo.FindIndexOf(options, func(o domain.Option) bool { return o.Other }); ok {
			other = &o
		}
		options = lo.Reject(options, func(o domain.Option, _ int) bool { return o.Other })
	}

	c := domain.NewChoice(h, kind, wire.IntOr(wire.Get(entry, entryID), 0), required, options, other)
	switch kind {
	case domain.KindScale:
		c.Low = wire.StringOr(wire.Get(entry, entryLabels, 0), "")
		c.High = wire.StringOr(wire.Get(entry, entryLabels, 1), "")
	case domain.KindCheckboxes:
		v, err := parseValidator(wire.Get(entry, entryValidator, 0))
		c.Validator = v
		return c, warnIf(err, warn)
	}
	return c, nil
}

func (d *Decoder) decodeGrid(h domain.Header, elem any, entries []any, warn func(error) *Warning) (domain.Element, *Warning) {
	first := entries[0]
	ids := lo.Map(entries, func(e any, _ int) int64 { return wire.IntOr(wire.Get(e, entryID), 0) })
	rows := lo.Map(entries, func(e any, _ int) string { return wire.StringOr(wire.Get(e, entryRowName, 0), "") })

	raw, _ := wire.Array(wire.Get(first, entryOptions))
	cols := lo.Map(raw, func(o any, _ int) domain.Option {
		opt := decodeOption(o)
		opt.HasAction, opt.Action = false, 0
		return opt
	})

	multi := wire.Truthy(wire.Get(first, entryGridMulti, 0))
	required := wire.Truthy(wire.Get(first, entryRequired))

	var (
		v   *validation.Validator
		err error
	)
	if rawValidator := wire.Get(elem, elemGridValid); rawValidator != nil {
		v, err = parseValidator(wire.Get(rawValidator, 0))
		if err == nil && wire.Len(rawValidator) != 1 {
			err = fmt.Errorf("%w: %v", validation.ErrUnknownValidator, rawValidator)
		}
	}

	return domain.NewGrid(h, ids, rows, cols, multi, required, v), warnIf(err, warn)
}

func decodeOption(o any) domain.Option {
	opt := domain.Option{Value: optionText(wire.Get(o, optionValue))}
	if wire.Len(o) > optionOther {
		opt.Other = wire.Truthy(wire.Get(o, optionOther))
	}
	if wire.Len(o) > optionAction {
		if a, ok := wire.Int(wire.Get(o, optionAction)); ok {
			opt.Action = a
			opt.HasAction = true
		}
	}
	return opt
}

// optionText reads an option value. Scale options may be numbers.
func optionText(v any) string {
	if s, ok := wire.String(v); ok {
		return s
	}
	if n, ok := wire.Int(v); ok {
		return fmt.Sprint(n)
	}
	return ""
}

func parseValidator(raw any) (*validation.Validator, error) {
	if raw == nil {
		return nil, nil
	}
	return validation.Parse(raw)
}

func warnIf(err error, warn func(error) *Warning) *Warning {
	if err == nil {
		return nil
	}
	return warn(err)
}
