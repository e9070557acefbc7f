// Package middleware adapts chi and go-chi/cors middleware to plain net/http
// constructors and adds the project's own request scope, access log and recovery
package middleware

import (
	"net/http"
	"time"

	pstrings "langid/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID reuses an inbound X-Request-Id or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d; detection checks it between spans
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache marks responses as uncacheable; a model swap changes answers
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress gzips/deflates responses at level (flate.BestSpeed and friends)
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level).Handler
}

// StripSlashes drops one trailing slash so /meta/model/ routes like /meta/model
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Throttle caps in-flight requests at limit and answers 429 past it; limit <= 0 is a no-op
func Throttle(limit int) func(http.Handler) http.Handler {
	if limit > 0 {
		return chimw.Throttle(limit)
	}
	return func(next http.Handler) http.Handler { return next }
}

// Heartbeat answers GET path with 200 before routing, for load balancer probes
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is the subset of go-chi/cors the api configures
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// CORS allows browser callers; empty fields fall back to an open, read-mostly policy
// that exposes the request and model id headers
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", HeaderRequestID}),
		ExposedHeaders: pstrings.IfEmpty(o.ExposedHeaders, []string{HeaderRequestID, HeaderModelID}),
		MaxAge:         o.MaxAge,
	})
}
