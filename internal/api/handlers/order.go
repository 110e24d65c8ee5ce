package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/export"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder godoc
//	@Summary		Submit an order from explicit lines
//	@Description	Prices the lines from the current catalog, applies the bulk order scheme and persists the order. The session cart is not touched.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string						false	"Session id"
//	@Param			Idempotency-Key	header		string						false	"Client token for safe retries"
//	@Param			order			body		models.CreateOrderRequest	true	"Order lines, payment terms and note"
//	@Success		201				{object}	models.CreateOrderResponse	"Order submitted"
//	@Success		200				{object}	models.CreateOrderResponse	"Replay of an earlier submission"
//	@Failure		400				{object}	response.ErrorResponse		"Validation error"
//	@Failure		404				{object}	response.ErrorResponse		"Unknown product"
//	@Failure		422				{object}	response.ErrorResponse		"Missing payment terms"
//	@Failure		429				{object}	response.ErrorResponse		"Too many submissions"
//	@Failure		503				{object}	response.ErrorResponse		"Order storage unavailable"
//	@Failure		504				{object}	response.ErrorResponse		"Submission timed out"
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		req.RequestToken = requestToken(r, req.RequestToken)
		if len(req.RequestToken) > maxRequestTokenLen {
			response.Error(w, errors.BadRequestError("Idempotency key is too long"))
			return
		}

		result, err := h.orderService.CreateOrder(r.Context(), sessionID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Order created successfully", slog.String("orderId", result.Order.ID.String()), slog.Bool("replayed", result.Replayed))
		response.Success(w, submissionStatus(result), result.Response())
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.SubmittedOrder	"The order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List submitted orders
//	@Description	Newest first.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int														false	"Page number (default: 1)"						minimum(1)
//	@Param			pageSize	query		int														false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.SubmittedOrder}	"Orders"
//	@Failure		500			{object}	response.ErrorResponse									"Internal server error"
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, pageSize := utils.ParsePagination(r)

		logger = logger.With(slog.Int("page", page), slog.Int("pageSize", pageSize))

		orders, total, err := h.orderService.ListOrders(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed successfully", slog.Int("count", len(orders)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.NewPage(orders, total, page, pageSize))
	}
}

// ShareReceipt godoc
//	@Summary		Receipt text for sharing
//	@Description	Returns the confirmation message and a WhatsApp share link carrying it.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string						true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.ShareReceiptResponse	"Share text and link"
//	@Failure		400	{object}	response.ErrorResponse		"Invalid order ID format"
//	@Failure		404	{object}	response.ErrorResponse		"Order not found"
//	@Router			/orders/{id}/share [get]
func (h *OrderHandler) ShareReceipt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		share, err := h.orderService.ShareReceipt(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to build receipt", slog.String("orderId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, share)
	}
}

// ExportOrders godoc
//	@Summary		Export order history
//	@Description	Downloads every submitted order as an xlsx workbook with Orders and Lines sheets.
//	@Tags			Orders
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200	{file}		file					"Workbook"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/orders/export [get]
func (h *OrderHandler) ExportOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		// buffered so a failure can still be reported as JSON
		var buf bytes.Buffer
		if err := h.orderService.ExportOrders(r.Context(), &buf); err != nil {
			logger.Error("Failed to export orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)

		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("Failed to stream export", slog.String("error", err.Error()))
		}
	}
}
