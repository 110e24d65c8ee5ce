package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
)

var ErrNotFound = errors.New("record not found")

// ProductRepository is the catalog provider. Implementations return
// products in catalog order.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, unit, price, category
		FROM products
		WHERE active
		ORDER BY position, id`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, unit, price, category
		FROM products
		WHERE id = $1 AND active`

	var p models.Product

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return &p, nil
}
