package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balcao/internal/caching"
	"balcao/internal/pos"

	"github.com/google/uuid"
)

// DraftTTL is how long an untouched draft survives.
const DraftTTL = 24 * time.Hour

// draftLockTTL bounds how long a crashed submit can hold a draft.
const draftLockTTL = 30 * time.Second

// ErrDraftLocked is returned by Lock while another caller holds the draft.
var ErrDraftLocked = errors.New("draft is locked by another submit")

// DraftRepository keeps drafts between requests. Drafts are never written to
// Postgres; only a submitted draft becomes an order.
type DraftRepository interface {
	Save(ctx context.Context, draft *pos.Draft) error
	Get(ctx context.Context, id uuid.UUID) (*pos.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Lock claims the draft for a single submit. It fails with
	// ErrDraftLocked while another claim is held.
	Lock(ctx context.Context, id uuid.UUID) error
	Unlock(ctx context.Context, id uuid.UUID) error
}

type redisDraftRepo struct {
	cache caching.CacheService
	ttl   time.Duration
}

func NewDraftRepo(cache caching.CacheService) DraftRepository {
	return &redisDraftRepo{cache: cache, ttl: DraftTTL}
}

func draftKey(id uuid.UUID) string {
	return caching.Key("draft", id.String())
}

func draftLockKey(id uuid.UUID) string {
	return caching.Key("draft", id.String(), "lock")
}

func (r *redisDraftRepo) Save(ctx context.Context, draft *pos.Draft) error {
	if err := r.cache.SetJSON(ctx, draftKey(draft.ID), draft, r.ttl); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *redisDraftRepo) Get(ctx context.Context, id uuid.UUID) (*pos.Draft, error) {
	draft := &pos.Draft{}
	found, err := r.cache.GetJSON(ctx, draftKey(id), draft)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("draft: %w", ErrNotFound)
	}
	return draft, nil
}

func (r *redisDraftRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.cache.Delete(ctx, draftKey(id)); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (r *redisDraftRepo) Lock(ctx context.Context, id uuid.UUID) error {
	ok, err := r.cache.SetNX(ctx, draftLockKey(id), "1", draftLockTTL)
	if err != nil {
		return fmt.Errorf("failed to lock draft: %w", err)
	}
	if !ok {
		return ErrDraftLocked
	}
	return nil
}

func (r *redisDraftRepo) Unlock(ctx context.Context, id uuid.UUID) error {
	if err := r.cache.Delete(ctx, draftLockKey(id)); err != nil {
		return fmt.Errorf("failed to unlock draft: %w", err)
	}
	return nil
}
