package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"langid/internal/platform/net/middleware"
)

// StackOptions tune the baseline api middleware
type StackOptions struct {
	// ModelID is stamped on every request context, log line and envelope
	ModelID string
	// CORSOrigins defaults to any origin
	CORSOrigins []string
	// Timeout bounds each request; 0 means 30s
	Timeout time.Duration
	// Slow marks access log lines at warn level; 0 disables
	Slow time.Duration
	// MaxInFlight caps concurrent requests; 0 disables
	MaxInFlight int
}

// CommonStack returns the baseline api middleware slice, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Scope(o.ModelID),
		// observability then safety, so panics are logged with their status
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,
		// cache / freshness
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Throttle(o.MaxInFlight),
		middleware.Timeout(timeout),
	}
}
