package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const maxRequestTokenLen = 128

type CartHandler struct {
	cartService  service.CartService
	orderService service.OrderService
	validator    *validator.Validate
}

func NewCartHandler(cartService service.CartService, orderService service.OrderService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
		validator:    validator.New(),
	}
}

// GetCart godoc
//	@Summary		Get the session cart
//	@Description	Returns the cart lines, the derived order summary and the workflow phase.
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id, issued on first use"
//	@Success		200				{object}	models.CartView			"Cart with summary"
//	@Failure		400				{object}	response.ErrorResponse	"Invalid session id"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds one unit. A product already in the cart has its quantity incremented.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id"
//	@Param			item			body		models.AddItemRequest	true	"Product to add"
//	@Success		200				{object}	models.CartView			"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error"
//	@Failure		404				{object}	response.ErrorResponse	"Product not found"
//	@Failure		409				{object}	response.ErrorResponse	"Cart locked by a submission"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		logger = logger.With(slog.String("productId", req.ProductID))

		cart, err := h.cartService.AddItem(r.Context(), sessionID, &req)
		if err != nil {
			logger.Warn("Failed to add item", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int("items", cart.Summary.ItemCount))
		response.Success(w, http.StatusOK, cart)
	}
}

// AdjustQuantity godoc
//	@Summary		Change a line quantity
//	@Description	Adds delta to the line quantity. A result of zero or less removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string							false	"Session id"
//	@Param			productId		path		string							true	"Product ID"
//	@Param			delta			body		models.AdjustQuantityRequest	true	"Quantity change"
//	@Success		200				{object}	models.CartView					"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse			"Validation error"
//	@Failure		409				{object}	response.ErrorResponse			"Cart locked by a submission"
//	@Failure		500				{object}	response.ErrorResponse			"Internal server error"
//	@Router			/cart/items/{productId} [patch]
func (h *CartHandler) AdjustQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		productID := strings.TrimSpace(r.PathValue("productId"))
		if productID == "" {
			response.Error(w, errors.BadRequestError("Missing productId"))
			return
		}

		var req models.AdjustQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid adjust quantity input")
			return
		}

		cart, err := h.cartService.AdjustQuantity(r.Context(), sessionID, productID, req.Delta)
		if err != nil {
			logger.Warn("Failed to adjust quantity", slog.String("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a line from the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id"
//	@Param			productId		path		string					true	"Product ID"
//	@Success		200				{object}	models.CartView			"Updated cart"
//	@Failure		409				{object}	response.ErrorResponse	"Cart locked by a submission"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		productID := strings.TrimSpace(r.PathValue("productId"))
		if productID == "" {
			response.Error(w, errors.BadRequestError("Missing productId"))
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), sessionID, productID)
		if err != nil {
			logger.Warn("Failed to remove item", slog.String("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id"
//	@Success		200				{object}	models.CartView			"Empty cart"
//	@Failure		409				{object}	response.ErrorResponse	"Cart locked by a submission"
//	@Failure		500				{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), sessionID)
		if err != nil {
			logger.Warn("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// Checkout godoc
//	@Summary		Submit the session cart
//	@Description	Freezes the cart, persists the order and starts a fresh session cart. A repeated Idempotency-Key (or request_token) returns the original order with replayed=true.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id"
//	@Param			Idempotency-Key	header		string					false	"Client token for safe retries"
//	@Param			checkout		body		models.CheckoutRequest	true	"Payment terms and note"
//	@Success		201				{object}	models.SubmissionResult	"Order submitted"
//	@Success		200				{object}	models.SubmissionResult	"Replay of an earlier submission"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error"
//	@Failure		409				{object}	response.ErrorResponse	"Submission in progress or prices changed"
//	@Failure		422				{object}	response.ErrorResponse	"Empty cart or missing payment terms"
//	@Failure		429				{object}	response.ErrorResponse	"Too many submissions"
//	@Failure		503				{object}	response.ErrorResponse	"Order storage unavailable"
//	@Failure		504				{object}	response.ErrorResponse	"Submission timed out"
//	@Router			/cart/checkout [post]
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		req.RequestToken = requestToken(r, req.RequestToken)
		if len(req.RequestToken) > maxRequestTokenLen {
			response.Error(w, errors.BadRequestError("Idempotency key is too long"))
			return
		}

		result, err := h.orderService.Checkout(r.Context(), sessionID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed", slog.String("orderId", result.Order.ID.String()), slog.Bool("replayed", result.Replayed))
		response.Success(w, submissionStatus(result), result)
	}
}

func submissionStatus(result *models.SubmissionResult) int {
	if result.Replayed {
		return http.StatusOK
	}

	return http.StatusCreated
}
