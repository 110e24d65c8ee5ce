package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are never mutated once loaded.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type ProductListResponse struct {
	Query    string    `json:"query"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type CategoryListResponse struct {
	Categories []string `json:"categories"`
}
