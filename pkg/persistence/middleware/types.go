// Package middleware wraps a journal store to transform the recorded
// answers: masking them or encrypting them at rest.
package middleware

import (
	"slices"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
)

// Middleware allows wrapping a JournalStore to add behavior.
type Middleware func(ports.JournalStore) ports.JournalStore

// Chain applies mws so that the first one sees the records first.
func Chain(store ports.JournalStore, mws ...Middleware) ports.JournalStore {
	for _, mw := range slices.Backward(mws) {
		store = mw(store)
	}
	return store
}

// clone copies sub deep enough for a middleware to rewrite its answers.
func clone(sub *domain.Submission) *domain.Submission {
	out := *sub
	out.Pages = slices.Clone(sub.Pages)
	if sub.Answers != nil {
		out.Answers = make(map[string][]string, len(sub.Answers))
		for k, v := range sub.Answers {
			out.Answers[k] = slices.Clone(v)
		}
	}
	return &out
}
