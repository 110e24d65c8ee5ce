package errors_test

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("Wraps underlying error", func(t *testing.T) {
		cause := stdErrors.New("connection reset")
		err := appErrors.DatabaseError("Failed to save order").WithError(cause)

		assert.Equal(t, "Failed to save order", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})

	t.Run("IsAppError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("submit: %w", appErrors.EmptyCartError())

		appErr, ok := appErrors.IsAppError(wrapped)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, appErr.Code)
		assert.True(t, appErrors.HasCode(wrapped, appErrors.ErrCodeEmptyCart))
		assert.False(t, appErrors.HasCode(wrapped, appErrors.ErrCodeMissingPaymentTerms))
	})

	t.Run("Plain error is not an AppError", func(t *testing.T) {
		_, ok := appErrors.IsAppError(stdErrors.New("boom"))
		assert.False(t, ok)
	})
}

func TestSubmissionErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       *appErrors.AppError
		code      string
		status    int
		retryable bool
	}{
		{"empty cart", appErrors.EmptyCartError(), appErrors.ErrCodeEmptyCart, http.StatusUnprocessableEntity, false},
		{"missing terms", appErrors.MissingPaymentTermsError(), appErrors.ErrCodeMissingPaymentTerms, http.StatusUnprocessableEntity, false},
		{"cart locked", appErrors.CartLockedError(), appErrors.ErrCodeCartLocked, http.StatusConflict, false},
		{"in progress", appErrors.SubmissionInProgressError(), appErrors.ErrCodeSubmissionInProgress, http.StatusConflict, false},
		{"stale catalog", appErrors.CatalogStaleError([]string{"1"}), appErrors.ErrCodeCatalogStale, http.StatusConflict, false},
		{"timeout", appErrors.SubmissionTimeoutError(), appErrors.ErrCodeSubmissionTimeout, http.StatusGatewayTimeout, true},
		{"unavailable", appErrors.ServiceUnavailableError("down"), appErrors.ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"token conflict", appErrors.RequestTokenConflictError(), appErrors.ErrCodeRequestTokenConflict, http.StatusConflict, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.StatusCode)
			assert.Equal(t, tc.retryable, tc.err.Retryable)
		})
	}

	assert.Contains(t, appErrors.CatalogStaleError([]string{"1", "4"}).Detail, "[1 4]")
}
