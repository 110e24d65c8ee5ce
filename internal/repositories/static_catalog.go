package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/shopspring/decimal"
)

type staticCatalog struct {
	products []models.Product
}

// NewStaticCatalog serves a fixed, in-memory product list.
func NewStaticCatalog(products []models.Product) ProductRepository {
	return &staticCatalog{products: slices.Clone(products)}
}

func (s *staticCatalog) ListProducts(_ context.Context) ([]models.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *staticCatalog) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// SeedProducts is the default outlet catalog. The same rows are loaded by
// the seed migration.
func SeedProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Tea Powder Premium", Unit: "500g", Price: decimal.NewFromInt(150), Category: "Beverages"},
		{ID: "2", Name: "Instant Coffee", Unit: "200g", Price: decimal.NewFromInt(280), Category: "Beverages"},
		{ID: "3", Name: "Biscuits Assorted", Unit: "Pack of 6", Price: decimal.NewFromInt(120), Category: "Snacks"},
		{ID: "4", Name: "Cooking Oil", Unit: "1L", Price: decimal.NewFromInt(180), Category: "Cooking"},
		{ID: "5", Name: "Rice Basmati", Unit: "5kg", Price: decimal.NewFromInt(450), Category: "Staples"},
		{ID: "6", Name: "Detergent Powder", Unit: "1kg", Price: decimal.NewFromInt(220), Category: "Home Care"},
		{ID: "7", Name: "Shampoo", Unit: "400ml", Price: decimal.NewFromInt(195), Category: "Personal Care"},
		{ID: "8", Name: "Noodles Instant", Unit: "Pack of 12", Price: decimal.NewFromInt(240), Category: "Snacks"},
	}
}
