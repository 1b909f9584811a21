package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/gforms/pkg/validation"
)

// Error categories. Every concrete error below unwraps to exactly one of them.
var (
	ErrDocumentAccess = errors.New("document access error")
	ErrElementValue   = errors.New("invalid element value")
	ErrValidation     = errors.New("validation error")
	ErrProtocol       = errors.New("protocol error")
)

// Document access errors.
var (
	ErrNoSuchForm      = errors.New("form does not exist")
	ErrClosedForm      = errors.New("form is closed")
	ErrEditingDisabled = errors.New("response editing is disabled")
	ErrSigninRequired  = errors.New("sign in is required")
	ErrParse           = errors.New("cannot parse form")
	ErrInvalidURL      = errors.New("not a form URL")
)

// Element value errors, raised by SetValue.
var (
	ErrElementType     = errors.New("incompatible value type")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrDuplicateOther  = errors.New("duplicate \"other\" value")
	ErrRowMismatch     = errors.New("length of choices does not match the number of rows")
	ErrInvalidDuration = errors.New("duration must be in [0, 73h)")
)

// Validation errors, raised by Validate.
var (
	ErrRequired           = errors.New("required element is empty")
	ErrEmptyOther         = errors.New("\"other\" option is selected but empty")
	ErrInvalidText        = errors.New("invalid text")
	ErrInvalidValue       = validation.ErrInvalidValue
	ErrInvalidChoiceCount = validation.ErrInvalidChoiceCount
	ErrSameColumn         = validation.ErrSameColumn
	ErrMisconfigured      = validation.ErrMisconfigured
)

// ErrInfiniteLoop is returned when the selected values make the page path
// revisit a page.
var ErrInfiniteLoop = errors.New("chosen values lead to an infinite loop")

// Protocol errors.
var (
	ErrBadStatus = errors.New("unexpected response status")
	ErrDesync    = errors.New("predicted next page differs from the server")
)

// Caller errors.
var (
	ErrNilCallbackValue      = errors.New("callback returned nil, is it missing a return statement?")
	ErrNotImplemented        = errors.New("cannot synthesize a value")
	ErrFormNotValidated      = errors.New("form is not validated")
	ErrCaptchaHandlerMissing = errors.New("captcha handler is missing")
)

// ElementError describes a value or validation problem of one element.
type ElementError struct {
	Element Element
	// Row is the grid row (or entry) index, -1 when the error is not row specific.
	Row     int
	RowName string
	Value   any
	Details string
	Err     error

	category error
}

func newValueError(e Element, err error, value any) *ElementError {
	return &ElementError{Element: e, Row: -1, Value: value, Err: err, category: ErrElementValue}
}

func newValidationError(e Element, err error) *ElementError {
	return &ElementError{Element: e, Row: -1, Err: err, category: ErrValidation}
}

// NewValidationError reports a validation failure of e found outside of
// its Validate method, such as a misconfiguration detected while
// synthesizing a value.
func NewValidationError(e Element, err error) *ElementError {
	return newValidationError(e, err)
}

func (e *ElementError) atRow(i int, name string) *ElementError {
	e.Row = i
	e.RowName = name
	return e
}

func (e *ElementError) Error() string {
	var sb strings.Builder
	h := e.Element.Header()
	fmt.Fprintf(&sb, "%s %q", e.Element.Kind(), h.Name)
	if e.Row >= 0 && e.RowName != "" {
		fmt.Fprintf(&sb, " (row %q)", e.RowName)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	if e.Value != nil {
		fmt.Fprintf(&sb, ": %#v", e.Value)
	}
	if e.Details != "" {
		fmt.Fprintf(&sb, " (%s)", e.Details)
	}
	return sb.String()
}

func (e *ElementError) Unwrap() []error {
	return []error{e.Err, e.category}
}

// AccessError is a document access failure.
type AccessError struct {
	URL   string
	Title string
	Err   error
}

// NewAccessError wraps one of the document access sentinels.
func NewAccessError(url string, err error) *AccessError {
	return &AccessError{URL: url, Err: err}
}

func (e *AccessError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("form %q: %v", e.Title, e.Err)
	}
	if e.URL == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.URL)
}

func (e *AccessError) Unwrap() []error {
	return []error{e.Err, ErrDocumentAccess}
}

// ProtocolError is a submission failure.
type ProtocolError struct {
	URL    string
	Status int
	// Page is the index of the page being submitted.
	Page int
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("page %d: %v (status %d)", e.Page+1, e.Err, e.Status)
	}
	return fmt.Sprintf("page %d: %v", e.Page+1, e.Err)
}

func (e *ProtocolError) Unwrap() []error {
	return []error{e.Err, ErrProtocol}
}
