package ports

import (
	"context"

	"github.com/aretw0/gforms/pkg/domain"
)

// JournalStore persists a record of every submission attempt.
type JournalStore interface {
	// Append stores a new record. The record ID must be set.
	Append(ctx context.Context, s *domain.Submission) error

	// List returns the records of a form, oldest first.
	// An empty formURL lists every record.
	List(ctx context.Context, formURL string) ([]*domain.Submission, error)

	// Get returns a record by ID.
	// Returns domain.ErrSubmissionNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Submission, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}
