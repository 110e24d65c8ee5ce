package service_test

import (
	"testing"
	"time"

	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	svc      service.CartService
	sessions repository.SessionRepository
	lock     repository.SubmissionLock
}

func setupCartService(t *testing.T) *cartFixture {
	t.Helper()

	client, _ := newRedis(t)
	sessions := repository.NewSessionRepo(client, time.Hour)
	lock := repository.NewSubmissionLock(client, 10*time.Second)
	catalog := service.NewCatalogService(repository.NewStaticCatalog(repository.SeedProducts()), newReadThrough(client), time.Minute)

	return &cartFixture{
		svc:      service.NewCartService(sessions, lock, catalog),
		sessions: sessions,
		lock:     lock,
	}
}

func TestCartService_GetCart(t *testing.T) {
	f := setupCartService(t)

	view, err := f.svc.GetCart(t.Context(), "s-1")

	require.NoError(t, err)
	assert.Equal(t, "s-1", view.SessionID)
	assert.Equal(t, models.PhaseBuilding, view.Phase)
	assert.NotNil(t, view.Cart.Lines)
	assert.Empty(t, view.Cart.Lines)
	assert.True(t, view.Summary.Total.IsZero())
}

func TestCartService_AddItem(t *testing.T) {
	t.Run("Success - add twice increments", func(t *testing.T) {
		// Arrange
		f := setupCartService(t)
		ctx := t.Context()

		// Act
		_, err := f.svc.AddItem(ctx, "s-1", &models.AddItemRequest{ProductID: "1"})
		require.NoError(t, err)

		view, err := f.svc.AddItem(ctx, "s-1", &models.AddItemRequest{ProductID: "1"})

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
		assert.True(t, view.Summary.Subtotal.Equal(decimal.NewFromInt(300)))
		assert.True(t, view.Summary.Discount.IsZero())
		assert.Equal(t, 2, view.Summary.ItemCount)

		stored, err := f.sessions.GetWorkflow(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Cart.Lines[0].Quantity)
	})

	t.Run("Success - scheme applies above 500", func(t *testing.T) {
		f := setupCartService(t)
		ctx := t.Context()

		for _, id := range []string{"5", "3"} {
			_, err := f.svc.AddItem(ctx, "s-2", &models.AddItemRequest{ProductID: id})
			require.NoError(t, err)
		}

		view, err := f.svc.GetCart(ctx, "s-2")
		require.NoError(t, err)

		// 450 + 120
		assert.True(t, view.Summary.Subtotal.Equal(decimal.NewFromInt(570)))
		assert.True(t, view.Summary.Discount.Equal(decimal.NewFromInt(28)))
		assert.True(t, view.Summary.Total.Equal(decimal.NewFromInt(542)))
		assert.True(t, view.Summary.SchemeApplied)
		assert.Equal(t, "Bulk order discount: ₹28 off", view.Summary.SchemeLabel)
	})

	t.Run("Failure - unknown product", func(t *testing.T) {
		f := setupCartService(t)

		view, err := f.svc.AddItem(t.Context(), "s-1", &models.AddItemRequest{ProductID: "99"})

		assert.Nil(t, view)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Failure - cart locked during submission", func(t *testing.T) {
		// Arrange
		f := setupCartService(t)
		release, acquired, err := f.lock.Acquire(t.Context(), "s-1")
		require.NoError(t, err)
		require.True(t, acquired)
		defer release()

		// Act
		view, err := f.svc.AddItem(t.Context(), "s-1", &models.AddItemRequest{ProductID: "1"})

		// Assert
		assert.Nil(t, view)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeCartLocked))
	})
}

func TestCartService_AdjustAndRemove(t *testing.T) {
	t.Run("Adjust to zero removes the line", func(t *testing.T) {
		f := setupCartService(t)
		ctx := t.Context()
		seedCart(t, f.sessions, "s-1", productByID(t, "1"), productByID(t, "1"), productByID(t, "2"))

		view, err := f.svc.AdjustQuantity(ctx, "s-1", "1", -2)

		require.NoError(t, err)
		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, "2", view.Cart.Lines[0].ProductID)
	})

	t.Run("Adjust unknown id is a no-op", func(t *testing.T) {
		f := setupCartService(t)
		seedCart(t, f.sessions, "s-1", productByID(t, "1"))

		view, err := f.svc.AdjustQuantity(t.Context(), "s-1", "42", 3)

		require.NoError(t, err)
		require.Len(t, view.Cart.Lines, 1)
		assert.Equal(t, 1, view.Cart.Lines[0].Quantity)
	})

	t.Run("Remove missing id leaves the cart unchanged", func(t *testing.T) {
		f := setupCartService(t)
		seedCart(t, f.sessions, "s-1", productByID(t, "1"), productByID(t, "4"))

		view, err := f.svc.RemoveItem(t.Context(), "s-1", "7")

		require.NoError(t, err)
		assert.Len(t, view.Cart.Lines, 2)
	})

	t.Run("Remove and clear", func(t *testing.T) {
		f := setupCartService(t)
		ctx := t.Context()
		seedCart(t, f.sessions, "s-1", productByID(t, "1"), productByID(t, "4"))

		view, err := f.svc.RemoveItem(ctx, "s-1", "1")
		require.NoError(t, err)
		require.Len(t, view.Cart.Lines, 1)

		view, err = f.svc.ClearCart(ctx, "s-1")
		require.NoError(t, err)
		assert.Empty(t, view.Cart.Lines)
		assert.Equal(t, 0, view.Summary.ItemCount)
	})

	t.Run("Abandoned submission is recovered", func(t *testing.T) {
		// Arrange
		f := setupCartService(t)
		ctx := t.Context()
		wf := seedCart(t, f.sessions, "s-1", productByID(t, "1"))
		require.NoError(t, wf.Begin(models.PaymentTermsImmediate, ""))
		require.NoError(t, f.sessions.SaveWorkflow(ctx, "s-1", wf))

		// Act
		view, err := f.svc.AdjustQuantity(ctx, "s-1", "1", 1)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.PhaseBuilding, view.Phase)
		assert.Equal(t, 2, view.Cart.Lines[0].Quantity)
	})
}
