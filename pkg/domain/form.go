package domain

import "errors"

// CollectEmails is the email collection mode.
type CollectEmails int

const (
	CollectEmailsNo        CollectEmails = 1
	CollectEmailsVerified  CollectEmails = 2
	CollectEmailsUserInput CollectEmails = 3
)

// Enabled reports whether an address is collected.
func (c CollectEmails) Enabled() bool {
	return c == CollectEmailsVerified || c == CollectEmailsUserInput
}

// Receipt is the policy for sending a copy of the responses to the respondent.
type Receipt int

const (
	// ReceiptUnused is found in older forms that never collected emails.
	ReceiptUnused Receipt = 0
	ReceiptOptIn  Receipt = 1
	ReceiptNever  Receipt = 2
	ReceiptAlways Receipt = 3
)

// Settings are the form-level flags. They are passed through as decoded.
type Settings struct {
	CollectEmails    CollectEmails
	SendReceipt      Receipt
	SubmitOnce       bool
	ShowSummary      bool
	EditResponses    bool
	ShowProgressbar  bool
	ShuffleQuestions bool
	ResubmitLink     bool
	ConfirmationMsg  string
	DisableAutosave  bool

	IsQuiz             bool
	ImmediateGrades    bool
	ShowMissed         bool
	ShowCorrectAnswers bool
	ShowPoints         bool
}

// DefaultSettings returns the values used when a settings block is missing.
func DefaultSettings() Settings {
	return Settings{
		CollectEmails:      CollectEmailsNo,
		SendReceipt:        ReceiptUnused,
		ResubmitLink:       true,
		ImmediateGrades:    true,
		ShowMissed:         true,
		ShowCorrectAnswers: true,
		ShowPoints:         true,
	}
}

// ShowResubmitLink is meaningless, and false, for forms limited to one response.
func (s Settings) ShowResubmitLink() bool {
	return s.ResubmitLink && !s.SubmitOnce
}

// NeedsCaptcha reports whether a submission must solve a CAPTCHA.
// wantReceipt is honored only when the receipt is opt-in.
func (s Settings) NeedsCaptcha(wantReceipt bool) bool {
	if s.SendReceipt == ReceiptOptIn {
		return wantReceipt
	}
	return s.SendReceipt == ReceiptAlways
}

// Form is one loaded document.
type Form struct {
	URL         string
	Name        string
	Title       string
	Description string
	Pages       []*Page
	Settings    Settings
	// SigninRequired is set for forms that only accept signed-in respondents.
	SigninRequired bool
	// Email is the collected address input, nil when emails are not collected.
	Email *UserEmail

	// Prefilled holds entry values from a prefill link or an edited response.
	Prefilled map[int64][]string

	Fbzx    string
	History string
	Draft   string
}

// NewForm creates a form with its first page.
func NewForm() *Form {
	return &Form{
		Pages:     []*Page{NewFirstPage()},
		Settings:  DefaultSettings(),
		Prefilled: map[int64][]string{},
	}
}

// AddPage appends a page and assigns its index.
func (f *Form) AddPage(p *Page) {
	p.Index = len(f.Pages)
	f.Pages = append(f.Pages, p)
}

// LastPage returns the page elements are currently appended to.
func (f *Form) LastPage() *Page {
	return f.Pages[len(f.Pages)-1]
}

// Inputs returns every input element in document order.
func (f *Form) Inputs() []InputElement {
	var out []InputElement
	for _, p := range f.Pages {
		for _, in := range p.Inputs() {
			out = append(out, in.Element)
		}
	}
	return out
}

// Reset restores the prefilled values of every input. Elements whose
// prefilled data does not fit are cleared and reported.
func (f *Form) Reset() error {
	var errs []error
	for _, in := range f.Inputs() {
		if err := in.Prefill(f.Prefilled); err != nil {
			errs = append(errs, err)
			_ = in.SetValue(Empty)
		}
	}
	return errors.Join(errs...)
}

// Clear empties every input.
func (f *Form) Clear() {
	for _, in := range f.Inputs() {
		_ = in.SetValue(Empty)
	}
}

// Payload is the union of all page payloads.
func (f *Form) Payload() Payload {
	out := Payload{}
	for _, p := range f.Pages {
		out.Merge(p.Payload())
	}
	return out
}
