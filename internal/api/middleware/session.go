package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
	"github.com/google/uuid"
)

const (
	SessionKey    = contextKey("session_id")
	SessionHeader = "X-Session-ID"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Session resolves the caller's order-building session from X-Session-ID.
// A missing header starts a new session; the id is always echoed back.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
			logger.Debug("Started new session", slog.String("sessionID", sessionID))
		} else if !sessionIDPattern.MatchString(sessionID) {
			logger.Warn("Rejected malformed session id")
			response.Error(w, appErrors.BadRequestError("Invalid "+SessionHeader+" header"))

			return
		}

		w.Header().Set(SessionHeader, sessionID)

		logger = logger.With(slog.String("sessionID", sessionID))
		ctx := WithSession(WithLogger(r.Context(), logger), sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionKey, sessionID)
}

func SessionFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionKey).(string)

	return sessionID, ok && sessionID != ""
}
