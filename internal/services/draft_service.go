package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DraftService drives the order-entry screen: a draft is edited line by line
// and becomes an order on Submit.
type DraftService interface {
	Create(ctx context.Context, in DraftDetails) (*pos.Draft, error)
	Get(ctx context.Context, id uuid.UUID) (*pos.Draft, error)
	Update(ctx context.Context, id uuid.UUID, in DraftDetails) (*pos.Draft, error)
	AddItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error)
	AdjustItem(ctx context.Context, id, productID uuid.UUID, delta int) (*pos.Draft, error)
	RemoveItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Submit(ctx context.Context, id uuid.UUID, in SubmitDraftInput) (*models.Order, error)
}

type DraftDetails struct {
	SalesTypeID  *uuid.UUID
	CustomerName *string
	Notes        *string
}

type SubmitDraftInput struct {
	Discount        *decimal.Decimal
	ManualTotal     *decimal.Decimal
	PaymentMethod   *string
	ExternalOrderID *string
}

type draftService struct {
	drafts     repositories.DraftRepository
	products   repositories.ProductRepository
	salesTypes repositories.SalesTypeRepository
	orders     OrderService
	now        func() time.Time
	logger     zerolog.Logger
}

func NewDraftService(
	drafts repositories.DraftRepository,
	products repositories.ProductRepository,
	salesTypes repositories.SalesTypeRepository,
	orders OrderService,
	logger zerolog.Logger,
) DraftService {
	return &draftService{
		drafts:     drafts,
		products:   products,
		salesTypes: salesTypes,
		orders:     orders,
		now:        time.Now,
		logger:     logger.With().Str("component", "drafts").Logger(),
	}
}

func (s *draftService) Create(ctx context.Context, in DraftDetails) (*pos.Draft, error) {
	if err := s.checkDetails(ctx, &in); err != nil {
		return nil, err
	}

	draft := pos.NewDraft(in.SalesTypeID, s.now())
	draft.CustomerName = in.CustomerName
	draft.Notes = in.Notes
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *draftService) Get(ctx context.Context, id uuid.UUID) (*pos.Draft, error) {
	return s.drafts.Get(ctx, id)
}

// Update replaces the draft metadata. Lines already in the cart keep their
// prices when the sales type changes.
func (s *draftService) Update(ctx context.Context, id uuid.UUID, in DraftDetails) (*pos.Draft, error) {
	if err := s.checkDetails(ctx, &in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(d *pos.Draft) error {
		d.SetSalesType(in.SalesTypeID)
		d.CustomerName = in.CustomerName
		d.Notes = in.Notes
		return nil
	})
}

func (s *draftService) AddItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return s.mutate(ctx, id, func(d *pos.Draft) error {
		return d.AddProduct(product)
	})
}

func (s *draftService) AdjustItem(ctx context.Context, id, productID uuid.UUID, delta int) (*pos.Draft, error) {
	return s.mutate(ctx, id, func(d *pos.Draft) error {
		return d.Cart.AdjustQuantity(productID, delta)
	})
}

func (s *draftService) RemoveItem(ctx context.Context, id, productID uuid.UUID) (*pos.Draft, error) {
	return s.mutate(ctx, id, func(d *pos.Draft) error {
		d.Cart.Remove(productID)
		return nil
	})
}

func (s *draftService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.drafts.Delete(ctx, id)
}

// Submit turns the draft into a pending order and discards the draft. A
// failed submit leaves the draft untouched so it can be corrected. Only one
// submit of a draft runs at a time; a concurrent one fails with
// repositories.ErrDraftLocked.
func (s *draftService) Submit(ctx context.Context, id uuid.UUID, in SubmitDraftInput) (*models.Order, error) {
	if err := s.drafts.Lock(ctx, id); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.drafts.Unlock(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("draft_id", id.String()).Msg("failed to release draft lock")
		}
	}()

	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Cart.IsEmpty() {
		return nil, pos.ErrEmptyCart
	}

	order, err := s.orders.CreateOrder(ctx, CreateOrderInput{
		OrderDetails: OrderDetails{
			SalesTypeID:     draft.SalesTypeID,
			Discount:        in.Discount,
			ManualTotal:     in.ManualTotal,
			ExternalOrderID: in.ExternalOrderID,
			CustomerName:    draft.CustomerName,
			Notes:           draft.Notes,
			PaymentMethod:   in.PaymentMethod,
		},
		Lines: draft.Cart.Lines,
	})
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("draft_id", id.String()).Msg("order created but draft not cleared")
	}
	return order, nil
}

func (s *draftService) mutate(ctx context.Context, id uuid.UUID, fn func(d *pos.Draft) error) (*pos.Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *draftService) checkDetails(ctx context.Context, in *DraftDetails) error {
	if err := common.ValidateOptionalString(&in.CustomerName, "customer_name", 200); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(&in.Notes, "notes", 1000); err != nil {
		return err
	}
	if in.SalesTypeID == nil {
		return nil
	}
	if _, err := s.salesTypes.GetByID(ctx, *in.SalesTypeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.NewValidationError("sales_type_id", "does not exist")
		}
		return fmt.Errorf("failed to get sales type: %w", err)
	}
	return nil
}
