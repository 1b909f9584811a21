/*
Package domain contains the typed model of a decoded form.

It defines the elements a form is made of, the pages they are grouped into and
the transitions between those pages. This package is kept pure and free of I/O:
decoding lives in internal/compiler, the fill state machine in internal/runtime
and the submission protocol in pkg/protocol.

# Key Entities

  - Element: any item of a form (question, comment, media, page break).
  - InputElement: an Element that holds a value and contributes to the payload.
  - Option: a fixed choice, possibly carrying a page transition.
  - Page: an ordered group of elements with a resolved default successor.
  - Form: the pages, settings and session tokens of one loaded document.

# Values

InputElement.SetValue accepts plain Go values (string, []string, Option,
time.Time, time.Duration, TimeOfDay, ...) and the sentinels Empty, Default and
Unchanged. A value of the wrong shape is reported as ErrElementType, a value
that is not among the options as ErrInvalidChoice.
*/
package domain
