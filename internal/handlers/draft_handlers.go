package handlers

import (
	"net/http"

	"balcao/internal/common"
	"balcao/internal/services"

	"github.com/labstack/echo/v4"
)

// DraftHandlers serve the order-entry screen. A draft is kept server side
// until it is submitted as an order.
type DraftHandlers struct {
	draftService services.DraftService
}

func NewDraftHandlers(draftService services.DraftService) *DraftHandlers {
	return &DraftHandlers{draftService: draftService}
}

func (h *DraftHandlers) Register(g *echo.Group) {
	g.POST("/drafts", h.CreateDraft)
	g.GET("/drafts/:id", h.GetDraft)
	g.PUT("/drafts/:id", h.UpdateDraft)
	g.DELETE("/drafts/:id", h.DeleteDraft)
	g.POST("/drafts/:id/items", h.AddItem)
	g.PATCH("/drafts/:id/items/:product_id", h.AdjustItem)
	g.DELETE("/drafts/:id/items/:product_id", h.RemoveItem)
	g.POST("/drafts/:id/submit", h.Submit)
}

type draftRequest struct {
	SalesTypeID  *string `json:"sales_type_id"`
	CustomerName *string `json:"customer_name"`
	Notes        *string `json:"notes"`
}

func (r *draftRequest) details() (services.DraftDetails, error) {
	salesTypeID, err := common.ValidateOptionalUUID(r.SalesTypeID, "sales_type_id")
	if err != nil {
		return services.DraftDetails{}, err
	}
	return services.DraftDetails{
		SalesTypeID:  salesTypeID,
		CustomerName: r.CustomerName,
		Notes:        r.Notes,
	}, nil
}

// CreateDraft handles POST /drafts
func (h *DraftHandlers) CreateDraft(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	details, err := req.details()
	if err != nil {
		return respondError(c, err, "Draft")
	}

	draft, err := h.draftService.Create(c.Request().Context(), details)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusCreated, draft)
}

// GetDraft handles GET /drafts/:id
func (h *DraftHandlers) GetDraft(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}

	draft, err := h.draftService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusOK, draft)
}

// UpdateDraft handles PUT /drafts/:id
func (h *DraftHandlers) UpdateDraft(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	details, err := req.details()
	if err != nil {
		return respondError(c, err, "Draft")
	}

	draft, err := h.draftService.Update(c.Request().Context(), id, details)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusOK, draft)
}

// DeleteDraft handles DELETE /drafts/:id
func (h *DraftHandlers) DeleteDraft(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	if err := h.draftService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Draft")
	}
	return c.NoContent(http.StatusNoContent)
}

// AddItem handles POST /drafts/:id/items
func (h *DraftHandlers) AddItem(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return respondError(c, err, "Draft")
	}

	draft, err := h.draftService.AddItem(c.Request().Context(), id, productID)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusOK, draft)
}

// AdjustItem handles PATCH /drafts/:id/items/:product_id
func (h *DraftHandlers) AdjustItem(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	productID, err := paramUUID(c, "product_id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	var req struct {
		Delta *int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Delta == nil {
		return common.SendValidationError(c, "delta", "is required")
	}

	draft, err := h.draftService.AdjustItem(c.Request().Context(), id, productID, *req.Delta)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusOK, draft)
}

// RemoveItem handles DELETE /drafts/:id/items/:product_id
func (h *DraftHandlers) RemoveItem(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	productID, err := paramUUID(c, "product_id")
	if err != nil {
		return respondError(c, err, "Draft")
	}

	draft, err := h.draftService.RemoveItem(c.Request().Context(), id, productID)
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusOK, draft)
}

// Submit handles POST /drafts/:id/submit
func (h *DraftHandlers) Submit(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Draft")
	}
	var req orderDetailsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	order, err := h.draftService.Submit(c.Request().Context(), id, services.SubmitDraftInput{
		Discount:        req.Discount,
		ManualTotal:     req.Total,
		PaymentMethod:   req.PaymentMethod,
		ExternalOrderID: req.ExternalOrderID,
	})
	if err != nil {
		return respondError(c, err, "Draft")
	}
	return c.JSON(http.StatusCreated, order)
}
