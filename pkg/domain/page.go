package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// Page is an ordered group of elements. Page 0 always exists and has the id
// ActionFirst; every other page starts at a page break of the document.
type Page struct {
	base
	Index int
	// PrevAction is the transition the document declares for the end of the
	// previous page. It is only read while resolving the graph.
	PrevAction int64
	Elements   []Element

	next           *Page
	hasDefaultNext bool
}

// SubmitPage is the end-of-form sentinel. Its id and index are ActionSubmit.
var SubmitPage = &Page{
	base:       base{head: Header{ID: ActionSubmit}, kind: KindPage},
	Index:      int(ActionSubmit),
	PrevAction: ActionNext,
}

// NewFirstPage creates page 0.
func NewFirstPage() *Page {
	return &Page{
		base:           base{head: Header{ID: ActionFirst}, kind: KindPage},
		PrevAction:     ActionNext,
		hasDefaultNext: true,
	}
}

// NewPage creates a page from a page break. Index is assigned by the form.
func NewPage(h Header, prevAction int64) *Page {
	return &Page{
		base:           base{head: h, kind: KindPage},
		PrevAction:     prevAction,
		hasDefaultNext: true,
	}
}

// Append adds an element to the page.
func (p *Page) Append(e Element) {
	p.Elements = append(p.Elements, e)
}

// Inputs returns the input elements of the page with their element index.
func (p *Page) Inputs() []IndexedInput {
	return lo.FilterMap(p.Elements, func(e Element, i int) (IndexedInput, bool) {
		in, ok := e.(InputElement)
		return IndexedInput{Index: i, Element: in}, ok
	})
}

// IndexedInput is an input element and its position on the page.
type IndexedInput struct {
	Index   int
	Element InputElement
}

// DefaultNext returns the resolved default successor, nil if none.
func (p *Page) DefaultNext() *Page { return p.next }

// HasDefaultNext is false when the document overrides the document-order
// successor of this page.
func (p *Page) HasDefaultNext() bool { return p.hasDefaultNext }

// NextPage returns the page that follows p under the current values, or nil
// when the form ends after p. Selected options override the default; the
// last overriding element on the page wins.
func (p *Page) NextPage() *Page {
	next := p.next
	for _, e := range p.Elements {
		c, ok := e.(*Choice)
		if !ok {
			continue
		}
		if t := c.Target(); t != nil {
			next = t
		}
	}
	if next == SubmitPage {
		return nil
	}
	return next
}

// Payload is the union of the payloads of the page inputs.
func (p *Page) Payload() Payload {
	return lo.Reduce(p.Inputs(), func(payload Payload, in IndexedInput, _ int) Payload {
		payload.Merge(in.Element.Payload())
		return payload
	}, Payload{})
}

// Draft concatenates the draft entries of the page inputs.
func (p *Page) Draft() []DraftEntry {
	return lo.FlatMap(p.Inputs(), func(in IndexedInput, _ int) []DraftEntry {
		return in.Element.Draft()
	})
}

// Title returns the heading used when rendering the page.
func (p *Page) Title() string {
	title := fmt.Sprintf("Page %d", p.Index+1)
	if p.head.Name != "" {
		title += ": " + p.head.Name
	}
	if !p.hasDefaultNext {
		if p.next == nil || p.next == SubmitPage {
			title += " -> Submit"
		} else {
			title += fmt.Sprintf(" -> Page %d", p.next.Index+1)
		}
	}
	return title
}
