package domain

import "fmt"

// Sentinel is a special value a fill callback may return.
type Sentinel int

const (
	// Default asks the fill state machine to synthesize a value.
	Default Sentinel = iota + 1
	// Empty clears the element.
	Empty
	// Unchanged keeps the current value.
	Unchanged
)

func (s Sentinel) String() string {
	switch s {
	case Default:
		return "DEFAULT"
	case Empty:
		return "EMPTY"
	case Unchanged:
		return "UNCHANGED"
	}
	return fmt.Sprintf("Sentinel(%d)", int(s))
}

// TimeOfDay is the value of a Time element.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Option is one fixed choice of a choice element or a grid column.
type Option struct {
	Value string
	// Other marks the free-text option. Its Value is the text.
	Other bool
	// Action is the raw transition id when HasAction is set.
	Action    int64
	HasAction bool
	// Target is the resolved transition. nil means the action is ignored.
	// SubmitPage means the form ends after this page.
	Target *Page
}

func (o Option) String() string {
	s := o.Value
	if o.Other {
		s = "Other"
		if o.Value != "" {
			s = fmt.Sprintf("Other: %q", o.Value)
		}
	}
	if !o.HasAction {
		return s
	}
	switch {
	case o.Target == nil:
		return s + " -> Ignored"
	case o.Target == SubmitPage:
		return s + " -> Submit"
	}
	return fmt.Sprintf("%s -> Go to Page %d", s, o.Target.Index+1)
}
