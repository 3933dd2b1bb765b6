package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/repositories"
	"balcao/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderHandlersTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	orders   *MockOrderService
	receipts *MockReceiptService
}

func (suite *OrderHandlersTestSuite) SetupTest() {
	suite.orders = new(MockOrderService)
	suite.receipts = new(MockReceiptService)
	suite.echo = echo.New()
	NewOrderHandlers(suite.orders, suite.receipts, time.UTC).Register(suite.echo.Group("/v1"))
}

func (suite *OrderHandlersTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.receipts.AssertExpectations(suite.T())
}

func TestOrderHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlersTestSuite))
}

func (suite *OrderHandlersTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_Success() {
	salesTypeID, productID := uuid.New(), uuid.New()
	order := &models.Order{ID: uuid.New(), Status: models.StatusPending, Total: decimal.RequireFromString("8.00")}
	suite.orders.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(in services.PlaceOrderInput) bool {
		return *in.SalesTypeID == salesTypeID &&
			len(in.Items) == 1 && in.Items[0].ProductID == productID && in.Items[0].Quantity == 2 &&
			in.Discount.Equal(decimal.RequireFromString("1.5")) && in.ManualTotal == nil
	})).Return(order, nil)

	body := fmt.Sprintf(`{"sales_type_id":%q,"discount":"1.5","items":[{"product_id":%q,"quantity":2}]}`, salesTypeID, productID)
	rec := suite.do(http.MethodPost, "/v1/orders", body)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	var got models.Order
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), order.ID, got.ID)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_InsufficientStock() {
	suite.orders.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("Pastel: %w", pos.ErrInsufficientStock))

	rec := suite.do(http.MethodPost, "/v1/orders", fmt.Sprintf(`{"sales_type_id":%q,"items":[]}`, uuid.New()))

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "INSUFFICIENT_STOCK", decodeError(suite.T(), rec).Error.Code)
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_BadSalesTypeID() {
	rec := suite.do(http.MethodPost, "/v1/orders", `{"sales_type_id":"nope"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(suite.T(), resp.Error.Details, "sales_type_id")
}

func (suite *OrderHandlersTestSuite) TestCreateOrder_MalformedBody() {
	rec := suite.do(http.MethodPost, "/v1/orders", `{"items":`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "CLIENT_ERROR", decodeError(suite.T(), rec).Error.Code)
}

func (suite *OrderHandlersTestSuite) TestGetOrder_NotFound() {
	id := uuid.New()
	suite.orders.On("GetOrder", mock.Anything, id).Return(nil, fmt.Errorf("failed to get order: %w", repositories.ErrNotFound))

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String(), "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "NOT_FOUND", decodeError(suite.T(), rec).Error.Code)
}

func (suite *OrderHandlersTestSuite) TestGetOrder_InvalidID() {
	rec := suite.do(http.MethodGet, "/v1/orders/123", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestUpdateStatus() {
	id := uuid.New()
	suite.orders.On("UpdateStatus", mock.Anything, id, models.StatusCancelled).
		Return(&models.Order{ID: id, Status: models.StatusCancelled}, nil)

	rec := suite.do(http.MethodPut, "/v1/orders/"+id.String()+"/status", `{"status":"cancelled"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var got struct {
		Status             models.OrderStatus   `json:"status"`
		AllowedTransitions []models.OrderStatus `json:"allowed_transitions"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), models.StatusCancelled, got.Status)
	assert.NotNil(suite.T(), got.AllowedTransitions)
	assert.Empty(suite.T(), got.AllowedTransitions)
}

func (suite *OrderHandlersTestSuite) TestGetOrder_ListsAllowedTransitions() {
	id := uuid.New()
	suite.orders.On("GetOrder", mock.Anything, id).
		Return(&models.Order{ID: id, Status: models.StatusPickedUp}, nil)

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String(), "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var got struct {
		ID                 uuid.UUID            `json:"id"`
		AllowedTransitions []models.OrderStatus `json:"allowed_transitions"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), id, got.ID)
	assert.Equal(suite.T(), pos.AllowedTransitions(models.StatusPickedUp), got.AllowedTransitions)
}

func (suite *OrderHandlersTestSuite) TestUpdateStatus_InvalidTransition() {
	id := uuid.New()
	suite.orders.On("UpdateStatus", mock.Anything, id, models.StatusPending).
		Return(nil, fmt.Errorf("%w: completed -> pending", pos.ErrInvalidTransition))

	rec := suite.do(http.MethodPut, "/v1/orders/"+id.String()+"/status", `{"status":"pending"}`)

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "INVALID_TRANSITION", resp.Error.Code)
	assert.Contains(suite.T(), resp.Error.Message, "completed -> pending")
}

func (suite *OrderHandlersTestSuite) TestUpdateStatus_UnknownStatus() {
	rec := suite.do(http.MethodPut, "/v1/orders/"+uuid.NewString()+"/status", `{"status":"shipped"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.orders.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderHandlersTestSuite) TestListOrders_Filters() {
	suite.orders.On("ListOrders", mock.Anything, mock.MatchedBy(func(f *models.OrderSearchFilter) bool {
		return f.Status != nil && *f.Status == models.StatusPending &&
			f.From.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)) &&
			f.Limit == 20
	})).Return([]*models.Order{}, nil)

	rec := suite.do(http.MethodGet, "/v1/orders?status=pending&from=2024-05-01&to=2024-05-01&limit=20", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestListOrders_BadDate() {
	rec := suite.do(http.MethodGet, "/v1/orders?from=yesterday", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), decodeError(suite.T(), rec).Error.Details, "from")
}

func (suite *OrderHandlersTestSuite) TestDeleteOrder() {
	id := uuid.New()
	suite.orders.On("DeleteOrder", mock.Anything, id).Return(nil)

	rec := suite.do(http.MethodDelete, "/v1/orders/"+id.String(), "")

	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestDeleteOrder_StoreFailure() {
	id := uuid.New()
	suite.orders.On("DeleteOrder", mock.Anything, id).Return(errors.New("connection reset"))

	rec := suite.do(http.MethodDelete, "/v1/orders/"+id.String(), "")

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
	resp := decodeError(suite.T(), rec)
	assert.Equal(suite.T(), "SERVER_ERROR", resp.Error.Code)
	assert.NotContains(suite.T(), resp.Error.Message, "connection reset")
}

func (suite *OrderHandlersTestSuite) TestSetPayment() {
	id := uuid.New()
	suite.orders.On("SetPaymentMethod", mock.Anything, id, mock.MatchedBy(func(m *string) bool {
		return m != nil && *m == "pix"
	})).Return(&models.Order{ID: id}, nil)

	rec := suite.do(http.MethodPut, "/v1/orders/"+id.String()+"/payment", `{"payment_method":"pix"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *OrderHandlersTestSuite) TestGetReceipt() {
	id := uuid.New()
	order := &models.Order{ID: id}
	suite.orders.On("GetOrder", mock.Anything, id).Return(order, nil)
	suite.receipts.On("Render", order).Return([]byte("%PDF-1.3"), nil)

	rec := suite.do(http.MethodGet, "/v1/orders/"+id.String()+"/receipt", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(suite.T(), rec.Header().Get(echo.HeaderContentDisposition), id.String()[:8])
}
