package domain

// Action identifiers used by pages and options to describe a transition.
// Any other value is the id of an explicit target page.
const (
	ActionFirst  int64 = -1
	ActionNext   int64 = -2
	ActionSubmit int64 = -3
)

// Payload keys of the submission protocol.
const (
	KeyFbzx           = "fbzx"
	KeyHistory        = "pageHistory"
	KeyDraft          = "partialResponse"
	KeyContinue       = "continue"
	KeyCaptcha        = "g-recaptcha-response"
	KeyBack           = "back"
	KeyEmail          = "emailAddress"
	OtherOption       = "__other_option__"
	otherResponseTail = ".other_option_response"
)

// EntryKey returns the payload key of an entry.
func EntryKey(entryID int64) string {
	return "entry." + itoa(entryID)
}

// OtherKey returns the payload key of the free text of an "other" option.
func OtherKey(entryID int64) string {
	return EntryKey(entryID) + otherResponseTail
}

// PartKey returns the payload key of one part of a composite entry,
// such as "entry.1_year".
func PartKey(entryID int64, part string) string {
	return EntryKey(entryID) + "_" + part
}
