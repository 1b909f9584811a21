package ports_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
)

// MockStore is a minimal JournalStore used to check the contract suite itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.Submission
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.Submission)}
}

func (m *MockStore) Append(_ context.Context, s *domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *MockStore) List(_ context.Context, formURL string) ([]*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Submission
	for _, s := range m.data {
		if formURL == "" || s.FormURL == formURL {
			copied := s
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Submission) int { return a.StartedAt.Compare(b.StartedAt) })
	return out, nil
}

func (m *MockStore) Get(_ context.Context, id string) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return &s, nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func TestJournalStore_Contract(t *testing.T) {
	ports.RunJournalStoreContract(t, NewMockStore())
}
