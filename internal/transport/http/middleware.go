package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joaopjk/moto-manager/internal/identity"
)

const (
	headerCorrelationID = "X-Correlation-Id"
	headerUserID        = "X-User-Id"
)

// requestIdentity extracts the caller identity headers into the request
// context, minting a correlation id when the caller sent none.
func requestIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(headerCorrelationID)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		userID := r.Header.Get(headerUserID)

		ctx := identity.WithRequestInfo(r.Context(), correlationID, userID)
		w.Header().Set(headerCorrelationID, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogging logs every request with its correlation id and duration.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			correlationID, userID := identity.RequestInfo(r.Context())
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"correlation_id", correlationID,
				"user_id", userID,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
