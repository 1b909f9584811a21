package domain

import (
	"github.com/aretw0/gforms/pkg/validation"
)

// UserEmailEntryID is the prefill key of the collected email address.
const UserEmailEntryID int64 = 0

// UserEmail is the respondent address collected by forms with email
// collection enabled. It is not a real element of the document but is shown
// and filled like one on the first page.
type UserEmail struct {
	input
	value     string
	validator *validation.Validator
}

// NewUserEmail creates the always-required email input.
func NewUserEmail() *UserEmail {
	return &UserEmail{
		input: input{
			base:     base{head: Header{Name: "Email"}, kind: KindUserEmail},
			required: true,
			entryIDs: []int64{UserEmailEntryID},
		},
		validator: validation.New(validation.TypeText, validation.TextEmail, nil, ""),
	}
}

// Value returns the current address.
func (u *UserEmail) Value() string { return u.value }

func (u *UserEmail) SetValue(value any) error {
	switch v := value.(type) {
	case Sentinel:
		if v != Empty {
			return newValueError(u, ErrElementType, value)
		}
		u.value = ""
	case string:
		u.value = v
	default:
		return newValueError(u, ErrElementType, value)
	}
	u.touch()
	return nil
}

func (u *UserEmail) Validate() error {
	if u.value == "" {
		return newValidationError(u, ErrRequired)
	}
	if err := u.validator.Validate(validation.Shape{Required: true}, [][]string{{u.value}}); err != nil {
		e := newValidationError(u, err)
		e.Value = u.value
		return e
	}
	return nil
}

func (u *UserEmail) Payload() Payload {
	if u.value == "" {
		return Payload{}
	}
	return Payload{KeyEmail: {u.value}}
}

// Draft is empty: the address travels in its own draft slot.
func (u *UserEmail) Draft() []DraftEntry { return nil }

func (u *UserEmail) Prefill(data map[int64][]string) error {
	values := data[UserEmailEntryID]
	if len(values) == 0 {
		return u.SetValue(Empty)
	}
	return u.SetValue(values[0])
}

func (u *UserEmail) Answer() []string {
	if u.value == "" {
		return []string{"EMPTY"}
	}
	return []string{quote(u.value)}
}

func (u *UserEmail) Hints() []string { return nil }
