package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds a single line. It fits the INTEGER column and keeps
// a line total well inside NUMERIC(12,2).
const MaxLineQuantity = 10000

// CartLine holds the quantity of one product plus the product details
// captured when the line was first added.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart lines keep insertion order and are unique by ProductID.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}

	return -1
}

// OrderSummary is derived from a Cart on every read and never stored.
type OrderSummary struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	SchemeApplied bool            `json:"scheme_applied"`
	SchemeLabel   string          `json:"scheme_label,omitempty"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required,ne=0,min=-10000,max=10000"`
}

type CheckoutRequest struct {
	PaymentTerms PaymentTerms `json:"payment_terms"`
	Note         string       `json:"note" validate:"max=1000"`
	RequestToken string       `json:"request_token,omitempty" validate:"omitempty,max=128"`
}

// CartView is what the Cart Review surface renders.
type CartView struct {
	SessionID string       `json:"session_id"`
	Phase     Phase        `json:"phase"`
	Cart      Cart         `json:"cart"`
	Summary   OrderSummary `json:"summary"`
	UpdatedAt time.Time    `json:"updated_at"`
}
