package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/handlers"
	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/export"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services/mocks"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderHandler(t *testing.T) (*handlers.OrderHandler, *mocks.OrderService) {
	t.Helper()

	orderService := mocks.NewOrderService(t)

	return handlers.NewOrderHandler(orderService), orderService
}

func sampleOrder() *models.SubmittedOrder {
	return &models.SubmittedOrder{
		ID:           uuid.Must(uuid.NewV7()),
		Lines:        []models.CartLine{{ProductID: "2", Name: "Instant Coffee", UnitPrice: decimal.NewFromInt(280), Quantity: 3}},
		Subtotal:     decimal.NewFromInt(840),
		Discount:     decimal.NewFromInt(42),
		Total:        decimal.NewFromInt(798),
		PaymentTerms: models.PaymentTermsCredit7,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("Success - Order Created", func(t *testing.T) {
		// Arrange
		handler, orderService := setupOrderHandler(t)
		order := sampleOrder()

		orderService.On("CreateOrder", mock.Anything, sessionID, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			return len(req.Lines) == 1 && req.Lines[0].Quantity == 3 && req.PaymentTerms == models.PaymentTermsCredit7
		})).Return(&models.SubmissionResult{Order: order}, nil).Once()

		body := `{"lines":[{"product_id":"2","quantity":3}],"payment_terms":"credit-7"}`
		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders", strings.NewReader(body), sessionID, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		// Act
		handler.CreateOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var got models.CreateOrderResponse
		decodeData(t, rr, &got)
		assert.Equal(t, order.ID, got.OrderID)
		assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(840)))
		assert.True(t, got.Discount.Equal(decimal.NewFromInt(42)))
		assert.True(t, got.Total.Equal(decimal.NewFromInt(798)))
	})

	t.Run("Failure - no lines", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"lines":[],"payment_terms":"immediate"}`), sessionID, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - zero quantity", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders",
			strings.NewReader(`{"lines":[{"product_id":"2","quantity":0}],"payment_terms":"immediate"}`), sessionID, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - quantity above the line bound", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders",
			strings.NewReader(`{"lines":[{"product_id":"2","quantity":9223372036854775807}],"payment_terms":"immediate"}`), sessionID, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - malformed JSON", func(t *testing.T) {
		handler, _ := setupOrderHandler(t)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"lines":`), sessionID, nil)
		rr := httptest.NewRecorder()

		handler.CreateOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeError(t, rr).Code)
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		order := sampleOrder()
		orderService.On("GetOrder", mock.Anything, order.ID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/"+order.ID.String(), nil, map[string]string{"id": order.ID.String()})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.SubmittedOrder
		decodeData(t, rr, &got)
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, models.PaymentTermsCredit7, got.PaymentTerms)
	})

	t.Run("Failure - invalid id", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/not-a-uuid", nil, map[string]string{"id": "not-a-uuid"})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		orderService.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure - not found", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		id := uuid.New()
		orderService.On("GetOrder", mock.Anything, id).Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Success - paginated", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		orders := []models.SubmittedOrder{*sampleOrder(), *sampleOrder()}
		orderService.On("ListOrders", mock.Anything, 2, 5).Return(orders, 7, nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders?page=2&pageSize=5", nil, nil)
		rr := httptest.NewRecorder()

		handler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got struct {
			Data     []models.SubmittedOrder `json:"data"`
			Total    int                     `json:"total"`
			Page     int                     `json:"page"`
			PageSize int                     `json:"pageSize"`
			HasMore  bool                    `json:"hasMore"`
		}
		decodeData(t, rr, &got)
		assert.Len(t, got.Data, 2)
		assert.Equal(t, 7, got.Total)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 5, got.PageSize)
		assert.False(t, got.HasMore)
	})

	t.Run("Success - defaults for bad paging", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		orderService.On("ListOrders", mock.Anything, 1, 10).Return([]models.SubmittedOrder{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders?page=-1&pageSize=500", nil, nil)
		rr := httptest.NewRecorder()

		handler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestShareReceipt(t *testing.T) {
	handler, orderService := setupOrderHandler(t)
	id := uuid.New()
	share := &models.ShareReceiptResponse{OrderID: id, Message: "Order Confirmation", WhatsAppURL: "https://wa.me/?text=Order%20Confirmation"}
	orderService.On("ShareReceipt", mock.Anything, id).Return(share, nil).Once()

	req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/"+id.String()+"/share", nil, map[string]string{"id": id.String()})
	rr := httptest.NewRecorder()

	handler.ShareReceipt().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.ShareReceiptResponse
	decodeData(t, rr, &got)
	assert.Equal(t, share.WhatsAppURL, got.WhatsAppURL)
}

func TestExportOrders(t *testing.T) {
	t.Run("Success - streams the workbook", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		orderService.On("ExportOrders", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			_, _ = args.Get(1).(io.Writer).Write([]byte("PK-workbook"))
		}).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/export", nil, nil)
		rr := httptest.NewRecorder()

		handler.ExportOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=\"orders-")
		assert.Equal(t, "PK-workbook", rr.Body.String())
	})

	t.Run("Failure - reported as JSON", func(t *testing.T) {
		handler, orderService := setupOrderHandler(t)
		orderService.On("ExportOrders", mock.Anything, mock.Anything).
			Return(appErrors.DatabaseError("Failed to fetch orders").WithError(errors.New("down"))).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/v1/orders/export", nil, nil)
		rr := httptest.NewRecorder()

		handler.ExportOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})
}
