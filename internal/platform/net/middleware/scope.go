package middleware

import (
	"net/http"

	"langid/internal/platform/logger"
	pnet "langid/internal/platform/net"
)

// Header names mirrored on every response
const (
	HeaderRequestID = "X-Request-ID"
	HeaderModelID   = "X-Model-ID"
)

// Scope stamps the request id (set by RequestID) and the serving model id onto
// the request context for both the envelope and the logger, and mirrors them
// as response headers. It must run after RequestID.
func Scope(modelID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)
			ctx = pnet.WithRequest(ctx, reqID, modelID)
			ctx = logger.WithRequest(ctx, reqID, modelID)

			if reqID != "" {
				w.Header().Set(HeaderRequestID, reqID)
			}
			if modelID != "" {
				w.Header().Set(HeaderModelID, modelID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
