package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/aretw0/gforms/pkg/domain"
)

// Store implements ports.JournalStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Submission
	mu   sync.RWMutex
}

// NewStore creates a new in-memory journal.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Submission),
	}
}

func clone(s *domain.Submission) *domain.Submission {
	copied := *s
	copied.Pages = slices.Clone(s.Pages)
	if s.Answers != nil {
		copied.Answers = make(map[string][]string, len(s.Answers))
		for k, v := range s.Answers {
			copied.Answers[k] = slices.Clone(v)
		}
	}
	return &copied
}

// Append records a submission. A record with the same ID is replaced.
func (s *Store) Append(ctx context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sub.ID] = clone(sub)
	return nil
}

// Get retrieves a copy of the record.
func (s *Store) Get(ctx context.Context, id string) (*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return clone(sub), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the records of formURL, or every record when formURL is
// empty, oldest first.
func (s *Store) List(ctx context.Context, formURL string) ([]*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Submission, 0, len(s.data))
	for _, sub := range s.data {
		if formURL == "" || sub.FormURL == formURL {
			out = append(out, clone(sub))
		}
	}
	slices.SortFunc(out, func(a, b *domain.Submission) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
