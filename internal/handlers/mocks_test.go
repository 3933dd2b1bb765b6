package handlers

import (
	"context"

	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, in services.CreateOrderInput) (*models.Order, error) {
	return m.order(m.Called(ctx, in))
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, in services.PlaceOrderInput) (*models.Order, error) {
	return m.order(m.Called(ctx, in))
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	return m.order(m.Called(ctx, id, to))
}

func (m *MockOrderService) SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) (*models.Order, error) {
	return m.order(m.Called(ctx, id, method))
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Render(order *models.Order) ([]byte, error) {
	args := m.Called(order)
	return args.Get(0).([]byte), args.Error(1)
}

type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) draft(args mock.Arguments) (*pos.Draft, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Draft), args.Error(1)
}

func (m *MockDraftService) Create(ctx context.Context, in services.DraftDetails) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, in))
}

func (m *MockDraftService) Get(ctx context.Context, id uuid.UUID) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, id))
}

func (m *MockDraftService) Update(ctx context.Context, id uuid.UUID, in services.DraftDetails) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, id, in))
}

func (m *MockDraftService) AddItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, id, productID))
}

func (m *MockDraftService) AdjustItem(ctx context.Context, id, productID uuid.UUID, delta int) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, id, productID, delta))
}

func (m *MockDraftService) RemoveItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error) {
	return m.draft(m.Called(ctx, id, productID))
}

func (m *MockDraftService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDraftService) Submit(ctx context.Context, id uuid.UUID, in services.SubmitDraftInput) (*models.Order, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, in services.ProductInput) (*models.Product, error) {
	return m.product(m.Called(ctx, in))
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, in services.ProductInput) (*models.Product, error) {
	return m.product(m.Called(ctx, id, in))
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) SetStock(ctx context.Context, id uuid.UUID, stock int) (*models.Product, error) {
	return m.product(m.Called(ctx, id, stock))
}

func (m *MockProductService) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockProductPriceService struct {
	mock.Mock
}

func (m *MockProductPriceService) Upsert(ctx context.Context, productID, salesTypeID uuid.UUID, price decimal.Decimal) (*models.ProductPrice, error) {
	args := m.Called(ctx, productID, salesTypeID, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductPrice), args.Error(1)
}

func (m *MockProductPriceService) Delete(ctx context.Context, productID, salesTypeID uuid.UUID) error {
	return m.Called(ctx, productID, salesTypeID).Error(0)
}

func (m *MockProductPriceService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.ProductPrice, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*models.ProductPrice), args.Error(1)
}
