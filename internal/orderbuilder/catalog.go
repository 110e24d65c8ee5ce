// Package orderbuilder holds the pure order-building rules: catalog lookup,
// cart reducers, the scheme discount and the submission workflow.
package orderbuilder

import (
	"strings"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
)

// Search filters catalog by a case-insensitive substring of the product
// name or category. The query is matched as typed, whitespace included. An
// empty query returns catalog unchanged.
func Search(query string, catalog []models.Product) []models.Product {
	q := strings.ToLower(query)
	if q == "" {
		return catalog
	}

	matches := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			matches = append(matches, p)
		}
	}

	return matches
}

// Categories lists distinct categories in order of first appearance.
func Categories(catalog []models.Product) []string {
	seen := make(map[string]struct{}, len(catalog))
	categories := make([]string, 0)

	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}

	return categories
}

// FindProduct looks a product up by id.
func FindProduct(catalog []models.Product, id string) (models.Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}

	return models.Product{}, false
}
