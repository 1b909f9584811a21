package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/gforms/pkg/adapters/memory"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/aretw0/gforms/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formURL = "https://docs.google.com/forms/d/e/X/viewform"

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) List(ctx context.Context, formURL string) ([]*domain.Submission, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.List(ctx, formURL)
}

func TestManager_SubmitIsSerialized(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	var inFlight, peak atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Submit(ctx, formURL, func(context.Context, *domain.Submission) error {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	subs, err := manager.List(ctx, formURL)
	require.NoError(t, err)
	require.Len(t, subs, 10)
	attempts := make(map[int]bool)
	for _, s := range subs {
		attempts[s.Attempt] = true
	}
	assert.Len(t, attempts, 10, "attempt numbers are unique")
}

func TestManager_SubmitRecordsOutcome(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	tests := []struct {
		name   string
		err    error
		status domain.SubmissionStatus
	}{
		{"ok", nil, domain.SubmissionOK},
		{"failed", domain.ErrDesync, domain.SubmissionFailed},
		{"closed", domain.NewAccessError(formURL, domain.ErrClosedForm), domain.SubmissionClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := manager.Submit(ctx, formURL, func(_ context.Context, sub *domain.Submission) error {
				sub.Pages = []int{0}
				return tt.err
			})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, sub)
			assert.NotEmpty(t, sub.ID)

			stored, err := manager.Get(ctx, sub.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, stored.Status)
			assert.Equal(t, []int{0}, stored.Pages)
			assert.False(t, stored.FinishedAt.Before(stored.StartedAt))
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), stored.Error)
			}
		})
	}

	subs, err := manager.List(ctx, formURL)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{subs[0].Attempt, subs[1].Attempt, subs[2].Attempt})
}

type fakeLocker struct {
	mu      sync.Mutex
	keys    []string
	ttl     time.Duration
	fail    error
	unlocks int
}

func (l *fakeLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}
	l.keys = append(l.keys, key)
	l.ttl = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	ctx := context.Background()

	t.Run("held around the submission", func(t *testing.T) {
		locker := &fakeLocker{}
		manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Minute))
		_, err := manager.Submit(ctx, formURL, func(context.Context, *domain.Submission) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, []string{formURL}, locker.keys)
		assert.Equal(t, time.Minute, locker.ttl)
		assert.Equal(t, 1, locker.unlocks)
	})

	t.Run("lock failure", func(t *testing.T) {
		boom := errors.New("redis down")
		manager := session.NewManager(memory.NewStore(), session.WithLocker(&fakeLocker{fail: boom}))
		called := false
		err := manager.WithLock(ctx, formURL, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, called)
	})
}
