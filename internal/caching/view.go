package caching

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// View is a read-through cache of a derived value. Each variant (a filter,
// a date range) is stored under its own key; invalidating any dependency
// drops every variant and the next Get re-runs the loader.
//
// Keys carry a generation that every invalidation bumps. A value loaded
// before an invalidation lands under the old generation and is never read.
type View[T any] struct {
	name   string
	ttl    time.Duration
	cache  CacheService
	logger zerolog.Logger
}

// NewView registers a view on reg for the given dependency keys. A nil cache
// disables caching and every Get loads.
func NewView[T any](reg *Registry, cache CacheService, name string, ttl time.Duration, deps ...string) *View[T] {
	v := &View[T]{
		name:   name,
		ttl:    ttl,
		cache:  cache,
		logger: reg.logger.With().Str("view", name).Logger(),
	}
	for _, dep := range deps {
		reg.Subscribe(dep, v.drop)
	}
	return v
}

func (v *View[T]) generationKey() string {
	return Key("viewgen", v.name)
}

func (v *View[T]) key(generation int64, variant string) string {
	return Key("view", v.name, strconv.FormatInt(generation, 10), variant)
}

// Get returns the cached value for variant, loading and storing it on a
// miss. Cache errors degrade to a direct load.
func (v *View[T]) Get(ctx context.Context, variant string, load func(ctx context.Context) (T, error)) (T, error) {
	if v.cache == nil {
		return load(ctx)
	}

	// A missing generation counter reads as zero.
	var generation int64
	if _, err := v.cache.GetJSON(ctx, v.generationKey(), &generation); err != nil {
		v.logger.Warn().Err(err).Msg("cache generation read failed")
		return load(ctx)
	}
	key := v.key(generation, variant)

	var cached T
	hit, err := v.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		v.logger.Warn().Err(err).Str("variant", variant).Msg("cache read failed")
	}
	if hit {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := v.cache.SetJSON(ctx, key, value, v.ttl); err != nil {
		v.logger.Warn().Err(err).Str("variant", variant).Msg("cache write failed")
	}
	return value, nil
}

func (v *View[T]) drop(ctx context.Context) {
	if v.cache == nil {
		return
	}
	if _, err := v.cache.Incr(ctx, v.generationKey()); err != nil {
		v.logger.Warn().Err(err).Msg("failed to bump view generation")
	}
	if err := v.cache.DeletePrefix(ctx, Key("view", v.name)+":"); err != nil {
		v.logger.Warn().Err(err).Msg("failed to drop view")
	}
}
