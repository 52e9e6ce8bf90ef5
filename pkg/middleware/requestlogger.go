package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bookverse/bookcart/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched
// with correlation_id, user_id, and trace/span IDs. Handlers retrieve it
// with logger.FromContext.
//
// Mount after RequestLogging and Tracing; the user_id field appears only
// once the auth middleware has stored it via logger.WithUserID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
