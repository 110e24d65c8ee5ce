package orderbuilder

import (
	"fmt"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/shopspring/decimal"
)

// Bulk order scheme: 5% off, rounded down, once the subtotal is strictly
// above 500.
var (
	schemeThreshold = decimal.NewFromInt(500)
	schemeRate      = decimal.New(5, -2)
)

func Discount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.GreaterThan(schemeThreshold) {
		return decimal.Zero
	}

	return subtotal.Mul(schemeRate).Floor()
}

func SchemeLabel(discount decimal.Decimal) string {
	if !discount.IsPositive() {
		return ""
	}

	return fmt.Sprintf("Bulk order discount: ₹%s off", discount.String())
}

func Summarize(cart models.Cart) models.OrderSummary {
	subtotal := Subtotal(cart)
	discount := Discount(subtotal)

	return models.OrderSummary{
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal.Sub(discount),
		ItemCount:     ItemCount(cart),
		SchemeApplied: discount.IsPositive(),
		SchemeLabel:   SchemeLabel(discount),
	}
}
