package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (sqlmock.Sqlmock, func() repository.ProductRepository, func() repository.OrderRepository) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return mock,
		func() repository.ProductRepository { return repository.NewProductRepo(db) },
		func() repository.OrderRepository { return repository.NewOrderRepository(db) }
}

var productColumns = []string{"id", "name", "unit", "price", "category"}

func TestProductRepositoryListProducts(t *testing.T) {
	listSQL := regexp.QuoteMeta(`SELECT id, name, unit, price, category FROM products WHERE active ORDER BY position, id`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock, products, _ := newSQLMock(t)
		repo := products()

		mock.ExpectQuery(listSQL).WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("1", "Tea Powder Premium", "500g", "150.00", "Beverages").
			AddRow("3", "Biscuits Assorted", "Pack of 6", "120.00", "Snacks"))

		// Act
		got, err := repo.ListProducts(t.Context())

		// Assert
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Tea Powder Premium", got[0].Name)
		assert.Equal(t, "150", got[0].Price.String())
		assert.Equal(t, "Snacks", got[1].Category)
	})

	t.Run("Success - empty table", func(t *testing.T) {
		mock, products, _ := newSQLMock(t)
		mock.ExpectQuery(listSQL).WillReturnRows(sqlmock.NewRows(productColumns))

		got, err := products().ListProducts(t.Context())

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Failure - query error", func(t *testing.T) {
		mock, products, _ := newSQLMock(t)
		dbErr := errors.New("connection refused")
		mock.ExpectQuery(listSQL).WillReturnError(dbErr)

		_, err := products().ListProducts(t.Context())

		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "failed to list products")
	})

	t.Run("Failure - bad price", func(t *testing.T) {
		mock, products, _ := newSQLMock(t)
		mock.ExpectQuery(listSQL).WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("1", "Tea Powder Premium", "500g", "not-a-number", "Beverages"))

		_, err := products().ListProducts(t.Context())

		assert.ErrorContains(t, err, "failed to scan product")
	})
}

func TestProductRepositoryGetProductByID(t *testing.T) {
	getSQL := regexp.QuoteMeta(`FROM products WHERE id = $1 AND active`)

	t.Run("Success", func(t *testing.T) {
		mock, products, _ := newSQLMock(t)
		mock.ExpectQuery(getSQL).WithArgs("5").WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("5", "Rice Basmati", "5kg", "450", "Staples"))

		got, err := products().GetProductByID(t.Context(), "5")

		require.NoError(t, err)
		assert.Equal(t, "Rice Basmati", got.Name)
		assert.Equal(t, "450", got.Price.String())
	})

	t.Run("Failure - not found", func(t *testing.T) {
		mock, products, _ := newSQLMock(t)
		mock.ExpectQuery(getSQL).WithArgs("99").WillReturnRows(sqlmock.NewRows(productColumns))

		got, err := products().GetProductByID(t.Context(), "99")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestStaticCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := repository.NewStaticCatalog(repository.SeedProducts())

	t.Run("Lists seed products in order", func(t *testing.T) {
		got, err := catalog.ListProducts(ctx)

		require.NoError(t, err)
		require.Len(t, got, 8)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "Noodles Instant", got[7].Name)
	})

	t.Run("Returned slice is a copy", func(t *testing.T) {
		got, err := catalog.ListProducts(ctx)
		require.NoError(t, err)

		got[0].Name = "changed"

		again, err := catalog.ListProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Tea Powder Premium", again[0].Name)
	})

	t.Run("Get by id", func(t *testing.T) {
		p, err := catalog.GetProductByID(ctx, "4")

		require.NoError(t, err)
		assert.Equal(t, "Cooking Oil", p.Name)
		assert.Equal(t, "180", p.Price.String())
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := catalog.GetProductByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
