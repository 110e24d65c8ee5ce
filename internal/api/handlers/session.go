package handlers

import (
	"net/http"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
)

// IdempotencyHeader overrides the request_token field when present.
const IdempotencyHeader = "Idempotency-Key"

// requireSession writes a 400 and reports false when the session
// middleware did not run for r.
func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Request without a session")
		response.Error(w, errors.BadRequestError("Missing "+middleware.SessionHeader+" header"))

		return "", false
	}

	return sessionID, true
}

func requestToken(r *http.Request, fromBody string) string {
	if key := r.Header.Get(IdempotencyHeader); key != "" {
		return key
	}

	return fromBody
}
