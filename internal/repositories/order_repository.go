package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation          = "23505"
	requestTokenConstraintName = "orders_request_token_key"
)

// ErrDuplicateRequestToken is returned by CreateOrder when an order with the
// same request token already exists.
var ErrDuplicateRequestToken = errors.New("duplicate request token")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.SubmittedOrder) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.SubmittedOrder, error)
	GetOrderByRequestToken(ctx context.Context, token string) (*models.SubmittedOrder, error)
	ListOrders(ctx context.Context, page, size int) ([]models.SubmittedOrder, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder writes the order and its lines in one transaction. The caller
// owns the deadline.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.SubmittedOrder) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO orders (id, session_id, request_token, subtotal, discount, total, payment_terms, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctx, query,
		order.ID,
		nullString(order.SessionID),
		nullString(order.RequestToken),
		order.Subtotal,
		order.Discount,
		order.Total,
		string(order.PaymentTerms),
		nullString(order.Note),
		order.CreatedAt,
	)
	if err != nil {
		if isRequestTokenConflict(err) {
			return ErrDuplicateRequestToken
		}

		return fmt.Errorf("failed to insert order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (order_id, position, product_id, name, unit, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx, lineQuery, order.ID, i, line.ProductID, line.Name, line.Unit, line.UnitPrice, line.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert an order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.SubmittedOrder, error) {
	return r.getOrder(ctx, "id = $1", id)
}

func (r *orderRepository) GetOrderByRequestToken(ctx context.Context, token string) (*models.SubmittedOrder, error) {
	return r.getOrder(ctx, "request_token = $1", token)
}

func (r *orderRepository) getOrder(ctx context.Context, where string, arg any) (*models.SubmittedOrder, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, session_id, request_token, subtotal, discount, total, payment_terms, note, created_at
		FROM orders
		WHERE ` + where

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	lines, err := r.loadLines(dbCtx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}

	if l, ok := lines[order.ID]; ok {
		order.Lines = l
	}

	return order, nil
}

// ListOrders returns one page of orders, newest first, plus the total count.
func (r *orderRepository) ListOrders(ctx context.Context, page, size int) ([]models.SubmittedOrder, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, session_id, request_token, subtotal, discount, total, payment_terms, note, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.SubmittedOrder, 0, size)
	ids := make([]uuid.UUID, 0, size)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed iterating orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	lines, err := r.loadLines(dbCtx, ids)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if l, ok := lines[orders[i].ID]; ok {
			orders[i].Lines = l
		}
	}

	return orders, total, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.CartLine, error) {
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT order_id, product_id, name, unit, unit_price, quantity
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]models.CartLine, len(orderIDs))

	for rows.Next() {
		var (
			orderID uuid.UUID
			line    models.CartLine
		)

		if err := rows.Scan(&orderID, &line.ProductID, &line.Name, &line.Unit, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		lines[orderID] = append(lines[orderID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating order lines: %w", err)
	}

	return lines, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.SubmittedOrder, error) {
	var (
		order                        models.SubmittedOrder
		sessionID, token, note, term sql.NullString
	)

	err := row.Scan(&order.ID, &sessionID, &token, &order.Subtotal, &order.Discount, &order.Total, &term, &note, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	order.SessionID = sessionID.String
	order.RequestToken = token.String
	order.PaymentTerms = models.PaymentTerms(term.String)
	order.Note = note.String
	order.Lines = []models.CartLine{}

	return &order, nil
}

func isRequestTokenConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == requestTokenConstraintName
}

// IsInvalidData reports whether Postgres rejected the values themselves:
// data exceptions (class 22) and integrity violations (class 23).
func IsInvalidData(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code.Class() {
	case "22", "23":
		return true
	}

	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
