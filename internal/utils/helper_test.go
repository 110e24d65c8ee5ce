package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *response.ErrorResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)

	return resp.Error
}

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"1"}`))
		rr := httptest.NewRecorder()

		var dest models.AddItemRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.True(t, ok)
		assert.Equal(t, "1", dest.ProductID)
	})

	t.Run("Failure - empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(""))
		rr := httptest.NewRecorder()

		var dest models.AddItemRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeError(t, rr).Code)
	})

	t.Run("Failure - malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{invalid"))
		rr := httptest.NewRecorder()

		var dest models.AddItemRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - per-field validation messages", func(t *testing.T) {
		body := `{"lines":[{"product_id":"","quantity":0}],"payment_terms":"immediate"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rr := httptest.NewRecorder()

		var dest models.CreateOrderRequest
		ok := utils.ParseAndValidate(req, rr, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		errResp := decodeError(t, rr)
		assert.Equal(t, appErrors.ErrCodeValidation, errResp.Code)
		assert.Contains(t, errResp.Details, "Field ProductID is required")
		assert.Contains(t, errResp.Details, "Field Quantity is required")
	})
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id.String(), nil)
		req.SetPathValue("id", id.String())

		parsed, err := utils.ParseID(req, "id")
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("Failure - invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil)
		req.SetPathValue("id", "abc")

		_, err := utils.ParseID(req, "id")
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})

	t.Run("Failure - missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)

		_, err := utils.ParseID(req, "id")
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 10},
		{"?page=3&pageSize=25", 3, 25},
		{"?page=0&pageSize=500", 1, 10},
		{"?page=abc&pageSize=-1", 1, 10},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders"+tc.query, nil)

			page, pageSize := utils.ParsePagination(req)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.pageSize, pageSize)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	t.Run("AppError keeps code and retryable flag", func(t *testing.T) {
		rr := httptest.NewRecorder()
		response.Error(rr, appErrors.SubmissionTimeoutError())

		assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
		errResp := decodeError(t, rr)
		assert.Equal(t, appErrors.ErrCodeSubmissionTimeout, errResp.Code)
		assert.True(t, errResp.Retryable)
	})

	t.Run("Plain error is hidden", func(t *testing.T) {
		rr := httptest.NewRecorder()
		response.Error(rr, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		errResp := decodeError(t, rr)
		assert.Equal(t, appErrors.ErrCodeInternal, errResp.Code)
		assert.NotContains(t, errResp.Message, assert.AnError.Error())
	})
}
