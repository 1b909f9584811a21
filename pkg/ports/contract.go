package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalStoreContract runs a suite of tests to verify that a JournalStore
// implementation adheres to the defined interface contract.
func RunJournalStoreContract(t *testing.T, store JournalStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")
	formA := "https://docs.google.com/forms/d/e/" + prefix + "-a/viewform"
	formB := "https://docs.google.com/forms/d/e/" + prefix + "-b/viewform"

	record := func(id, form string, attempt int) *domain.Submission {
		started := time.Date(2024, 5, 1, 12, 0, attempt, 0, time.UTC)
		return &domain.Submission{
			ID:         prefix + "-" + id,
			FormURL:    form,
			Attempt:    attempt,
			Status:     domain.SubmissionOK,
			Pages:      []int{0, 2},
			History:    "0,2",
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
			Links:      domain.SubmissionLinks{Resubmit: "https://docs.google.com/forms/d/e/x/viewform"},
		}
	}

	t.Run("Append and Get", func(t *testing.T) {
		s := record("get", formA, 1)
		require.NoError(t, store.Append(ctx, s), "Append should not return error")
		defer func() { _ = store.Delete(ctx, s.ID) }()

		loaded, err := store.Get(ctx, s.ID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, s.FormURL, loaded.FormURL)
		assert.Equal(t, s.Status, loaded.Status)
		assert.Equal(t, s.Pages, loaded.Pages)
		assert.Equal(t, s.Links, loaded.Links)
		assert.True(t, s.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrSubmissionNotFound)
	})

	t.Run("Stored records are copies", func(t *testing.T) {
		s := record("copy", formA, 1)
		require.NoError(t, store.Append(ctx, s))
		defer func() { _ = store.Delete(ctx, s.ID) }()

		s.Status = domain.SubmissionFailed
		loaded, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SubmissionOK, loaded.Status)
	})

	t.Run("Delete", func(t *testing.T) {
		s := record("delete", formA, 1)
		require.NoError(t, store.Append(ctx, s))

		require.NoError(t, store.Delete(ctx, s.ID), "Delete should not return error")
		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, domain.ErrSubmissionNotFound, "Get after Delete should return ErrSubmissionNotFound")

		assert.NoError(t, store.Delete(ctx, s.ID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		records := []*domain.Submission{
			record("list-2", formA, 2),
			record("list-1", formA, 1),
			record("list-b", formB, 1),
		}
		for _, s := range records {
			require.NoError(t, store.Append(ctx, s))
		}
		defer func() {
			for _, s := range records {
				_ = store.Delete(ctx, s.ID)
			}
		}()

		listed, err := store.List(ctx, formA)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, 1, listed[0].Attempt, "records are ordered by start time")
		assert.Equal(t, 2, listed[1].Attempt)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, s := range all {
			ids = append(ids, s.ID)
		}
		for _, s := range records {
			assert.Contains(t, ids, s.ID)
		}
	})
}
