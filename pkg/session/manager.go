package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/gforms/internal/logging"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/aretw0/gforms/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can block a form.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes submissions per form and records them in a journal.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.JournalStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiration of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a journal manager on top of store.
func NewManager(store ports.JournalStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock of formURL.
func (m *Manager) WithLock(ctx context.Context, formURL string, fn func(context.Context) error) error {
	entry := m.acquire(formURL)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(formURL)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, formURL, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"form_url", formURL,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Record appends sub to the journal, assigning an ID when it has none.
func (m *Manager) Record(ctx context.Context, sub *domain.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if err := m.store.Append(ctx, sub); err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	m.logger.Debug("submission recorded",
		"id", sub.ID,
		"form_url", sub.FormURL,
		"status", sub.Status,
	)
	return nil
}

// Submit runs fn under the lock of formURL and records the submission it
// describes, whether fn succeeded or not. The attempt number counts the
// journal entries of the form.
func (m *Manager) Submit(ctx context.Context, formURL string, fn func(ctx context.Context, sub *domain.Submission) error) (*domain.Submission, error) {
	var sub *domain.Submission
	err := m.WithLock(ctx, formURL, func(ctx context.Context) error {
		previous, err := m.store.List(ctx, formURL)
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}
		sub = &domain.Submission{
			FormURL:   formURL,
			Attempt:   len(previous) + 1,
			StartedAt: time.Now().UTC(),
		}

		runErr := fn(ctx, sub)
		sub.FinishedAt = time.Now().UTC()
		switch {
		case runErr == nil:
			sub.Status = domain.SubmissionOK
		case errors.Is(runErr, domain.ErrClosedForm):
			sub.Status = domain.SubmissionClosed
			sub.Error = runErr.Error()
		default:
			sub.Status = domain.SubmissionFailed
			sub.Error = runErr.Error()
		}
		if err := m.Record(context.WithoutCancel(ctx), sub); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	})
	return sub, err
}

// Get retrieves a journal entry.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Submission, error) {
	return m.store.Get(ctx, id)
}

// List returns the journal of formURL, or the whole journal for "".
func (m *Manager) List(ctx context.Context, formURL string) ([]*domain.Submission, error) {
	return m.store.List(ctx, formURL)
}

// Delete removes a journal entry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Store returns the underlying journal store.
func (m *Manager) Store() ports.JournalStore {
	return m.store
}
