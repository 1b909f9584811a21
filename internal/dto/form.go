// Package dto holds the serializable views of a form shared by the HTTP and
// MCP adapters and the CLI.
package dto

import (
	"github.com/aretw0/gforms/pkg/domain"
)

// Form is the JSON view of a loaded form.
type Form struct {
	URL            string   `json:"url,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	SigninRequired bool     `json:"signin_required,omitempty"`
	Settings       Settings `json:"settings"`
	Pages          []Page   `json:"pages"`
}

// Settings is the JSON view of the form settings that affect submission.
type Settings struct {
	CollectEmails bool   `json:"collect_emails"`
	Receipt       string `json:"receipt"`
	SubmitOnce    bool   `json:"submit_once"`
	IsQuiz        bool   `json:"is_quiz"`
	Confirmation  string `json:"confirmation,omitempty"`
}

// Page is one page and its elements.
type Page struct {
	Index int    `json:"index"`
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Next is the index of the default successor, nil when the form ends.
	Next     *int      `json:"next"`
	Elements []Element `json:"elements"`
}

// Element is one element of a page.
type Element struct {
	ID          int64    `json:"id"`
	Kind        string   `json:"kind"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Entries     []int64  `json:"entries,omitempty"`
	Hints       []string `json:"hints,omitempty"`
	Answer      []string `json:"answer,omitempty"`
	URL         string   `json:"url,omitempty"`
	// Size is WIDTHxHEIGHT for images.
	Size string `json:"size,omitempty"`
}

var receipts = map[domain.Receipt]string{
	domain.ReceiptUnused: "unused",
	domain.ReceiptOptIn:  "opt_in",
	domain.ReceiptNever:  "never",
	domain.ReceiptAlways: "always",
}

// FromForm maps a form to its JSON view. Answers are included when
// withAnswers is set.
func FromForm(f *domain.Form, withAnswers bool) Form {
	out := Form{
		URL:            f.URL,
		Title:          f.Title,
		Description:    f.Description,
		SigninRequired: f.SigninRequired,
		Settings: Settings{
			CollectEmails: f.Settings.CollectEmails.Enabled(),
			Receipt:       receipts[f.Settings.SendReceipt],
			SubmitOnce:    f.Settings.SubmitOnce,
			IsQuiz:        f.Settings.IsQuiz,
			Confirmation:  f.Settings.ConfirmationMsg,
		},
		Pages: make([]Page, 0, len(f.Pages)),
	}
	for _, p := range f.Pages {
		page := Page{
			Index:    p.Index,
			ID:       p.Header().ID,
			Title:    p.Title(),
			Elements: make([]Element, 0, len(p.Elements)),
		}
		if next := p.DefaultNext(); next != nil && next != domain.SubmitPage {
			idx := next.Index
			page.Next = &idx
		}
		for _, e := range p.Elements {
			page.Elements = append(page.Elements, FromElement(e, withAnswers))
		}
		out.Pages = append(out.Pages, page)
	}
	return out
}

// FromElement maps one element.
func FromElement(e domain.Element, withAnswer bool) Element {
	h := e.Header()
	out := Element{
		ID:          h.ID,
		Kind:        e.Kind().String(),
		Name:        h.Name,
		Description: h.Description,
	}
	switch v := e.(type) {
	case domain.InputElement:
		out.Required = v.Required()
		out.Entries = v.EntryIDs()
		out.Hints = v.Hints()
		if withAnswer {
			out.Answer = v.Answer()
		}
	case *domain.Static:
		out.URL = v.URL()
		if v.Image != nil {
			out.Size = v.Image.Size()
		}
	}
	return out
}
