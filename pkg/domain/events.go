package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPageEnter     EventType = "page_enter"
	EventElementFilled EventType = "element_filled"
	EventSubmitStep    EventType = "submit_step"
	EventSubmitted     EventType = "submitted"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PageEvent is emitted when the fill state machine selects a page.
type PageEvent struct {
	EventBase
	PageIndex int `json:"page_index"`
}

// ElementEvent is emitted after an element received a value.
type ElementEvent struct {
	EventBase
	PageIndex    int    `json:"page_index"`
	ElementIndex int    `json:"element_index"`
	ElementID    int64  `json:"element_id"`
	Kind         string `json:"kind"`
	Synthesized  bool   `json:"synthesized,omitempty"`
}

// SubmitEvent is emitted for every request of a submission and once at the end.
type SubmitEvent struct {
	EventBase
	PageIndex int           `json:"page_index"`
	History   string        `json:"history,omitempty"`
	Status    int           `json:"status,omitempty"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for fill and submission observability.
type LifecycleHooks struct {
	OnPageEnter     func(context.Context, *PageEvent)
	OnElementFilled func(context.Context, *ElementEvent)
	OnSubmitStep    func(context.Context, *SubmitEvent)
	OnSubmitted     func(context.Context, *SubmitEvent)
}

// Combine returns hooks calling h and then other.
func (h LifecycleHooks) Combine(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPageEnter:     chain(h.OnPageEnter, other.OnPageEnter),
		OnElementFilled: chain(h.OnElementFilled, other.OnElementFilled),
		OnSubmitStep:    chain(h.OnSubmitStep, other.OnSubmitStep),
		OnSubmitted:     chain(h.OnSubmitted, other.OnSubmitted),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
