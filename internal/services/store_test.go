package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the order tables. memTransactor
// snapshots it before each transaction and restores the snapshot on error.
type memStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]models.Product
	orders   map[uuid.UUID]models.Order
	items    []models.OrderItem

	// failItemAfter makes the nth successful item insert fail the next one.
	failItemAfter int
	itemInserts   int
}

func newMemStore() *memStore {
	return &memStore{
		products:      map[uuid.UUID]models.Product{},
		orders:        map[uuid.UUID]models.Order{},
		failItemAfter: -1,
	}
}

var errInjected = errors.New("injected failure")

func (s *memStore) addProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type memSnapshot struct {
	products map[uuid.UUID]models.Product
	orders   map[uuid.UUID]models.Order
	items    []models.OrderItem
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		products: make(map[uuid.UUID]models.Product, len(s.products)),
		orders:   make(map[uuid.UUID]models.Order, len(s.orders)),
		items:    append([]models.OrderItem(nil), s.items...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
}

type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTx(ctx context.Context, fn func(repos repositories.Repos) error) error {
	snap := t.store.snapshot()
	err := fn(repositories.Repos{
		Products:   &memProductRepo{t.store},
		Orders:     &memOrderRepo{t.store},
		OrderItems: &memOrderItemRepo{t.store},
	})
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

type memProductRepo struct {
	s *memStore
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Product
	for _, p := range r.s.products {
		if filter != nil && filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProductRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	all, _ := r.List(ctx, nil)
	var out []*models.Product
	for _, p := range all {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Stock = stock
	r.s.products[id] = p
	return nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	taken := min(p.Stock, quantity)
	p.Stock -= taken
	r.s.products[id] = p
	return taken, nil
}

func (r *memProductRepo) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Stock += quantity
	r.s.products[id] = p
	return nil
}

type memOrderRepo struct {
	s *memStore
}

func (r *memOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, item := range r.s.items {
		if item.OrderID == id {
			o.Items = append(o.Items, item)
		}
	}
	return &o, nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

func (r *memOrderRepo) SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.PaymentMethod = method
	r.s.orders[id] = o
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.orders, id)
	kept := r.s.items[:0]
	for _, item := range r.s.items {
		if item.OrderID != id {
			kept = append(kept, item)
		}
	}
	r.s.items = kept
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	return r.ListInRange(ctx, filter.From, filter.To)
}

func (r *memOrderRepo) ListInRange(ctx context.Context, from, to *time.Time) ([]*models.Order, error) {
	r.s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.s.orders))
	for id, o := range r.s.orders {
		if from != nil && o.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && o.CreatedAt.After(*to) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.mu.Unlock()

	out := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memOrderItemRepo struct {
	s *memStore
}

func (r *memOrderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failItemAfter >= 0 && r.s.itemInserts >= r.s.failItemAfter {
		return errInjected
	}
	r.s.itemInserts++
	item.CreatedAt = time.Now()
	r.s.items = append(r.s.items, *item)
	return nil
}

func (r *memOrderItemRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	return r.ListByOrderIDs(ctx, []uuid.UUID{orderID})
}

func (r *memOrderItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]*models.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.OrderItem
	for _, item := range r.s.items {
		for _, id := range orderIDs {
			if item.OrderID == id {
				item := item
				out = append(out, &item)
			}
		}
	}
	return out, nil
}
