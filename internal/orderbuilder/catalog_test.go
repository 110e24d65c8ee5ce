package orderbuilder_test

import (
	"testing"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Tea Powder Premium", Unit: "500g", Price: decimal.NewFromInt(150), Category: "Beverages"},
		{ID: "2", Name: "Instant Coffee", Unit: "200g", Price: decimal.NewFromInt(280), Category: "Beverages"},
		{ID: "3", Name: "Biscuits Assorted", Unit: "Pack of 6", Price: decimal.NewFromInt(120), Category: "Snacks"},
		{ID: "4", Name: "Cooking Oil", Unit: "1L", Price: decimal.NewFromInt(180), Category: "Cooking"},
		{ID: "8", Name: "Noodles Instant", Unit: "Pack of 12", Price: decimal.NewFromInt(240), Category: "Snacks"},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}

	return out
}

func TestSearch(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"Empty query returns full catalog in order", "", []string{"1", "2", "3", "4", "8"}},
		{"Single space matches names containing a space", " ", []string{"1", "2", "3", "4", "8"}},
		{"Whitespace is not trimmed", "tea   ", []string{}},
		{"Leading space is part of the query", " coffee", []string{"2"}},
		{"Matches name case-insensitively", "COFFEE", []string{"2"}},
		{"Matches category", "snacks", []string{"3", "8"}},
		{"Matches name or category keeping catalog order", "instant", []string{"2", "8"}},
		{"No match is an empty result", "detergent", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			result := orderbuilder.Search(tc.query, catalog)

			// Assert
			assert.Equal(t, tc.expected, ids(result))
		})
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Beverages", "Snacks", "Cooking"}, orderbuilder.Categories(testCatalog()))
	assert.Empty(t, orderbuilder.Categories(nil))
}

func TestFindProduct(t *testing.T) {
	p, ok := orderbuilder.FindProduct(testCatalog(), "4")
	assert.True(t, ok)
	assert.Equal(t, "Cooking Oil", p.Name)

	_, ok = orderbuilder.FindProduct(testCatalog(), "99")
	assert.False(t, ok)
}
