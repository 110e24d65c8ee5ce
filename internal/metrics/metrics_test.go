package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	t.Run("Labels requests by route pattern", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/v1/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		handler := Middleware(mux)
		counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /api/v1/orders/{id}")
		before := testutil.ToFloat64(counter)

		// Act
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/orders/0190a1b2-0000-7000-8000-000000000001", nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
		assert.InDelta(t, 0, testutil.ToFloat64(httpRequestsInFlight), 0.001)
	})

	t.Run("Unmatched routes share one label", func(t *testing.T) {
		handler := Middleware(http.NewServeMux())
		counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, "unmatched")
		before := testutil.ToFloat64(counter)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
	})
}

func TestDomainMetrics(t *testing.T) {
	t.Run("ObserveSubmission counts orders and discount", func(t *testing.T) {
		orders := ordersSubmitted.WithLabelValues("checkout", "immediate")
		beforeOrders := testutil.ToFloat64(orders)
		beforeDiscount := testutil.ToFloat64(discountGranted)

		ObserveSubmission("checkout", "immediate", 30, 20*time.Millisecond)
		ObserveSubmission("checkout", "immediate", 0, 10*time.Millisecond)

		assert.InDelta(t, beforeOrders+2, testutil.ToFloat64(orders), 0.001)
		assert.InDelta(t, beforeDiscount+30, testutil.ToFloat64(discountGranted), 0.001)
	})

	t.Run("Rejections and replays", func(t *testing.T) {
		rejections := submissionRejections.WithLabelValues("EMPTY_CART")
		before := testutil.ToFloat64(rejections)
		beforeReplays := testutil.ToFloat64(submissionReplays)

		RecordRejection("EMPTY_CART")
		RecordReplay()

		assert.InDelta(t, before+1, testutil.ToFloat64(rejections), 0.001)
		assert.InDelta(t, beforeReplays+1, testutil.ToFloat64(submissionReplays), 0.001)
	})

	t.Run("Breaker state gauge", func(t *testing.T) {
		SetBreakerState("order-store", 2)

		assert.InDelta(t, 2, testutil.ToFloat64(breakerState.WithLabelValues("order-store")), 0.001)
	})

	t.Run("Handler serves the registry", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "orders_submitted_total")
	})
}
