package caching

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Invalidation keys. A write names the keys it touched and every view that
// depends on one of them drops its cached value.
const (
	KeyProducts      = "products"
	KeyCategories    = "categories"
	KeySalesTypes    = "sales_types"
	KeyProductPrices = "product_prices"
	KeyOrders        = "orders"
	KeyReports       = "reports"
)

// Registry maps invalidation keys to the callbacks that depend on them.
// Views live in the shared cache, so dropping them from one instance drops
// them for every instance.
type Registry struct {
	mu     sync.RWMutex
	subs   map[string][]func(ctx context.Context)
	logger zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		subs:   make(map[string][]func(ctx context.Context)),
		logger: logger.With().Str("component", "invalidation").Logger(),
	}
}

// Subscribe registers fn to run whenever key is invalidated.
func (r *Registry) Subscribe(key string, fn func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[key] = append(r.subs[key], fn)
}

// Invalidate runs the subscribers of keys. A subscriber shared by several of
// the keys runs once per key it was registered under.
func (r *Registry) Invalidate(ctx context.Context, keys ...string) {
	var fns []func(ctx context.Context)
	seen := make(map[string]bool, len(keys))

	r.mu.RLock()
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		fns = append(fns, r.subs[k]...)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(ctx)
	}
}
