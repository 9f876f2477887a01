package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"countryvote/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

// RequestIDContextKey is the key for the request ID in context
const RequestIDContextKey ContextKey = "request_id"

// RequestID attaches a random request ID to the context and the
// X-Request-ID response header, and logs the request with it.
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = newRequestID()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			w.Header().Set("X-Request-ID", requestID)

			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			}).Debug("Request received")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
