package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxOrderAmount is the first amount the NUMERIC(12,2) order columns cannot hold.
var MaxOrderAmount = decimal.New(1, 10)

// SubmittedOrder is created once by the submission pipeline and is
// read-only afterwards.
type SubmittedOrder struct {
	ID           uuid.UUID       `json:"id"`
	SessionID    string          `json:"session_id,omitempty"`
	RequestToken string          `json:"request_token,omitempty"`
	Lines        []CartLine      `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	PaymentTerms PaymentTerms    `json:"payment_terms"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (o *SubmittedOrder) ItemCount() int {
	var count int
	for _, line := range o.Lines {
		count += line.Quantity
	}

	return count
}

type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=10000"`
}

// CreateOrderRequest is the stateless submission contract of POST /orders.
type CreateOrderRequest struct {
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	PaymentTerms PaymentTerms       `json:"payment_terms"`
	Note         string             `json:"note" validate:"max=1000"`
	RequestToken string             `json:"request_token,omitempty" validate:"omitempty,max=128"`
}

type CreateOrderResponse struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Replayed  bool            `json:"replayed"`
}

// SubmissionResult carries the order handed to the Confirmation surface.
// Replayed is set when the request token matched an earlier submission.
type SubmissionResult struct {
	Order    *SubmittedOrder `json:"order"`
	Replayed bool            `json:"replayed"`
}

func (r *SubmissionResult) Response() CreateOrderResponse {
	return CreateOrderResponse{
		OrderID:   r.Order.ID,
		Subtotal:  r.Order.Subtotal,
		Discount:  r.Order.Discount,
		Total:     r.Order.Total,
		CreatedAt: r.Order.CreatedAt,
		Replayed:  r.Replayed,
	}
}

type ShareReceiptResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Message     string    `json:"message"`
	WhatsAppURL string    `json:"whatsapp_url"`
}
