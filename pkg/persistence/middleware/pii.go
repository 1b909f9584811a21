package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
)

// Masked replaces the answers hidden by the PII middleware.
const Masked = "***"

type piiMiddleware struct {
	ports.JournalStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the answers of questions
// whose name matches one of the patterns.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.JournalStore) ports.JournalStore {
		return &piiMiddleware{JournalStore: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Append(ctx context.Context, sub *domain.Submission) error {
	// The caller keeps its record untouched.
	masked := clone(sub)
	for question := range masked.Answers {
		for _, p := range m.patterns {
			if p.MatchString(question) {
				masked.Answers[question] = []string{Masked}
				break
			}
		}
	}
	return m.JournalStore.Append(ctx, masked)
}
