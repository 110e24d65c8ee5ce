package orderbuilder

import (
	"slices"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/shopspring/decimal"
)

// The reducers below never modify the cart they are given. No-op calls
// return the input as is. Quantities saturate at models.MaxLineQuantity.

func AddItem(cart models.Cart, product models.Product) models.Cart {
	lines := slices.Clone(cart.Lines)

	if i := cart.Find(product.ID); i >= 0 {
		lines[i].Quantity = boundedQuantity(lines[i].Quantity, 1)
		return models.Cart{Lines: lines}
	}

	lines = append(lines, models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Unit:      product.Unit,
		UnitPrice: product.Price,
		Quantity:  1,
	})

	return models.Cart{Lines: lines}
}

func AdjustQuantity(cart models.Cart, productID string, delta int) models.Cart {
	i := cart.Find(productID)
	if i < 0 {
		return cart
	}

	quantity := boundedQuantity(cart.Lines[i].Quantity, delta)
	if quantity == 0 {
		return models.Cart{Lines: slices.Delete(slices.Clone(cart.Lines), i, i+1)}
	}

	lines := slices.Clone(cart.Lines)
	lines[i].Quantity = quantity

	return models.Cart{Lines: lines}
}

// boundedQuantity is max(0, q+delta) capped at MaxLineQuantity, without
// overflowing for any delta.
func boundedQuantity(q, delta int) int {
	q = min(max(q, 0), models.MaxLineQuantity)
	if delta > models.MaxLineQuantity-q {
		return models.MaxLineQuantity
	}

	return max(0, q+delta)
}

func RemoveItem(cart models.Cart, productID string) models.Cart {
	i := cart.Find(productID)
	if i < 0 {
		return cart
	}

	return models.Cart{Lines: slices.Delete(slices.Clone(cart.Lines), i, i+1)}
}

func Subtotal(cart models.Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range cart.Lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	return subtotal
}

// ItemCount sums quantities, not distinct products.
func ItemCount(cart models.Cart) int {
	var count int
	for _, line := range cart.Lines {
		count += line.Quantity
	}

	return count
}

// Reprice refreshes line prices from the catalog and returns the ids of
// lines whose price differed. Lines whose product left the catalog are
// dropped and reported as changed too.
func Reprice(cart models.Cart, catalog []models.Product) (models.Cart, []string) {
	var changed []string
	lines := make([]models.CartLine, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		product, ok := FindProduct(catalog, line.ProductID)
		if !ok {
			changed = append(changed, line.ProductID)
			continue
		}

		if !product.Price.Equal(line.UnitPrice) {
			changed = append(changed, line.ProductID)
			line.UnitPrice = product.Price
		}
		lines = append(lines, line)
	}

	if len(changed) == 0 {
		return cart, nil
	}

	return models.Cart{Lines: lines}, changed
}
