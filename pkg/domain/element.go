package domain

import "fmt"

// Kind is the closed set of element variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindShortText
	KindParagraph
	KindRadio
	KindDropdown
	KindCheckboxes
	KindScale
	KindRadioGrid
	KindCheckboxGrid
	KindDate
	KindDateTime
	KindTime
	KindDuration
	KindComment
	KindImage
	KindVideo
	KindPage
	KindUserEmail
	KindFileUpload
)

var kindNames = map[Kind]string{
	KindUnknown:      "Unknown",
	KindShortText:    "Short",
	KindParagraph:    "Paragraph",
	KindRadio:        "Radio",
	KindDropdown:     "Dropdown",
	KindCheckboxes:   "Checkboxes",
	KindScale:        "Scale",
	KindRadioGrid:    "RadioGrid",
	KindCheckboxGrid: "CheckboxGrid",
	KindDate:         "Date",
	KindDateTime:     "DateTime",
	KindTime:         "Time",
	KindDuration:     "Duration",
	KindComment:      "Comment",
	KindImage:        "Image",
	KindVideo:        "Video",
	KindPage:         "Page",
	KindUserEmail:    "UserEmail",
	KindFileUpload:   "FileUpload",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Header holds the fields shared by every element.
type Header struct {
	ID          int64
	Name        string
	Description string
}

// Element is any item of a form.
type Element interface {
	Header() Header
	Kind() Kind
}

// InputElement is an element that holds a value.
//
// Every mutation bumps Revision, which lets the fill state machine tell
// whether a previously validated element has changed since.
type InputElement interface {
	Element
	Required() bool
	EntryIDs() []int64
	Revision() uint64

	// SetValue replaces the current value. See the package documentation
	// for accepted values.
	SetValue(value any) error
	// Validate checks the current value against the element constraints.
	Validate() error
	// Payload returns the submission fields of the current value.
	// An unset element has an empty payload.
	Payload() Payload
	// Draft returns the draft entries of the current value.
	Draft() []DraftEntry
	// Prefill applies prefilled entry values. Entries without data are cleared.
	Prefill(data map[int64][]string) error
	// Answer renders the current value, one line per entry.
	Answer() []string
	// Hints renders the options and constraints of the element.
	Hints() []string
}

type base struct {
	head Header
	kind Kind
}

func (b *base) Header() Header { return b.head }
func (b *base) Kind() Kind     { return b.kind }

// Static is an element without a value: comments, images, videos and
// elements that could not be decoded.
type Static struct {
	base
	// Link is the video id for KindVideo.
	Link string
	// Image is the picture of a KindImage element, nil when the document
	// has none.
	Image *Image
}

// NewStatic creates a valueless element.
func NewStatic(h Header, kind Kind) *Static {
	return &Static{base: base{head: h, kind: kind}}
}

// URL returns the video URL or the resolved image URL, "" when there is
// none.
func (s *Static) URL() string {
	switch {
	case s.kind == KindVideo && s.Link != "":
		return "https://youtu.be/" + s.Link
	case s.kind == KindImage && s.Image != nil:
		return s.Image.URL
	}
	return ""
}

// input holds the state shared by input elements.
type input struct {
	base
	required bool
	entryIDs []int64
	rev      uint64
}

func (in *input) Required() bool { return in.required }

func (in *input) EntryIDs() []int64 {
	return append([]int64(nil), in.entryIDs...)
}

func (in *input) Revision() uint64 { return in.rev }

func (in *input) touch() { in.rev++ }

func (in *input) entryID() int64 {
	if len(in.entryIDs) == 0 {
		return 0
	}
	return in.entryIDs[0]
}
