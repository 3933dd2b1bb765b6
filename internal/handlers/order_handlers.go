package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandlers struct {
	orderService   services.OrderService
	receiptService services.ReceiptService
	loc            *time.Location
}

// NewOrderHandlers builds order handlers. Date-only filters are read in loc.
func NewOrderHandlers(orderService services.OrderService, receiptService services.ReceiptService, loc *time.Location) *OrderHandlers {
	return &OrderHandlers{
		orderService:   orderService,
		receiptService: receiptService,
		loc:            loc,
	}
}

func (h *OrderHandlers) Register(g *echo.Group) {
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.PUT("/orders/:id/status", h.UpdateStatus)
	g.PUT("/orders/:id/payment", h.SetPayment)
	g.DELETE("/orders/:id", h.DeleteOrder)
	g.GET("/orders/:id/receipt", h.GetReceipt)
}

type orderDetailsRequest struct {
	Discount        *decimal.Decimal `json:"discount"`
	Total           *decimal.Decimal `json:"total"`
	PaymentMethod   *string          `json:"payment_method"`
	ExternalOrderID *string          `json:"external_order_id"`
}

// orderResponse is an order plus the statuses it may move to next, so
// clients can offer only valid actions.
type orderResponse struct {
	*models.Order
	AllowedTransitions []models.OrderStatus `json:"allowed_transitions"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{Order: order, AllowedTransitions: pos.AllowedTransitions(order.Status)}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req struct {
		orderDetailsRequest
		SalesTypeID  *string                   `json:"sales_type_id"`
		CustomerName *string                   `json:"customer_name"`
		Notes        *string                   `json:"notes"`
		Items        []services.OrderLineInput `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	salesTypeID, err := common.ValidateOptionalUUID(req.SalesTypeID, "sales_type_id")
	if err != nil {
		return respondError(c, err, "Order")
	}

	order, err := h.orderService.PlaceOrder(c.Request().Context(), services.PlaceOrderInput{
		OrderDetails: services.OrderDetails{
			SalesTypeID:     salesTypeID,
			Discount:        req.Discount,
			ManualTotal:     req.Total,
			ExternalOrderID: req.ExternalOrderID,
			CustomerName:    req.CustomerName,
			Notes:           req.Notes,
			PaymentMethod:   req.PaymentMethod,
		},
		Items: req.Items,
	})
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusCreated, newOrderResponse(order))
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Order")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Order")
	}
	return c.JSON(http.StatusOK, newOrderResponse(order))
}

// parseDateParam accepts RFC3339 or a plain date. A plain date means the
// start of that day, or its end when endOfDay is set.
func (h *OrderHandlers) parseDateParam(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		return nil, common.NewValidationError(field, "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// ListOrders handles GET /orders?status=&from=&to=&limit=&offset=
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return respondError(c, err, "Order")
	}

	filter := &models.OrderSearchFilter{Limit: limit, Offset: offset}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := pos.ParseStatus(raw)
		if err != nil {
			return respondError(c, err, "Order")
		}
		filter.Status = &status
	}
	if filter.From, err = h.parseDateParam(c.QueryParam("from"), "from", false); err != nil {
		return respondError(c, err, "Order")
	}
	if filter.To, err = h.parseDateParam(c.QueryParam("to"), "to", true); err != nil {
		return respondError(c, err, "Order")
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Order")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Order")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	status, err := pos.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return respondError(c, err, "Order")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		return respondError(c, err, "Order")
	}
	return c.JSON(http.StatusOK, newOrderResponse(order))
}

// SetPayment handles PUT /orders/:id/payment. A null or blank method
// marks the order unpaid.
func (h *OrderHandlers) SetPayment(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Order")
	}
	var req struct {
		PaymentMethod *string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	order, err := h.orderService.SetPaymentMethod(c.Request().Context(), id, req.PaymentMethod)
	if err != nil {
		return respondError(c, err, "Order")
	}
	return c.JSON(http.StatusOK, newOrderResponse(order))
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Order")
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Order")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandlers) GetReceipt(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Order")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Order")
	}
	pdf, err := h.receiptService.Render(order)
	if err != nil {
		return respondError(c, err, "Order")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=pedido-%s.pdf", order.ID.String()[:8]))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
