package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/goccy/go-json"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "gforms:journal:"

// Store implements ports.JournalStore using Redis.
//
// Every record is a JSON string. Two sorted sets scored by start time index
// the records: one for all of them and one per form URL. Expired records are
// pruned from the indexes lazily by List.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis journal with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + "submission:" + id
}

func (s *Store) indexKey(formURL string) string {
	if formURL == "" {
		return s.prefix + "index"
	}
	return s.prefix + "form:" + formURL
}

// Append persists the record and indexes it.
func (s *Store) Append(ctx context.Context, sub *domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	score := float64(sub.StartedAt.UnixMilli())
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(sub.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(""), backend.Z{Score: score, Member: sub.ID})
	pipe.ZAdd(ctx, s.indexKey(sub.FormURL), backend.Z{Score: score, Member: sub.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves a record.
func (s *Store) Get(ctx context.Context, id string) (*domain.Submission, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var sub domain.Submission
	if err := json.Unmarshal(val, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &sub, nil
}

// Delete removes a record and its index entries.
func (s *Store) Delete(ctx context.Context, id string) error {
	sub, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		return s.client.ZRem(ctx, s.indexKey(""), id).Err()
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(""), id)
	pipe.ZRem(ctx, s.indexKey(sub.FormURL), id)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the records of formURL, or all records when formURL is
// empty, oldest first.
func (s *Store) List(ctx context.Context, formURL string) ([]*domain.Submission, error) {
	index := s.indexKey(formURL)
	ids, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	out := make([]*domain.Submission, 0, len(values))
	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var sub domain.Submission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission %s: %w", ids[i], err)
		}
		out = append(out, &sub)
	}

	// Lazy cleanup of records that expired through their TTL.
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, index, expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired submissions: %w", err)
		}
	}
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
