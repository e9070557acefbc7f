package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"langid/internal/platform/config"
	phttp "langid/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_Config(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("LANGID_SRV_UNSET_")).Addr(); got != ":4000" {
		t.Fatalf("default addr = %q", got)
	}
	t.Setenv("LANGID_SRV_PORT", ":12345")
	if got := phttp.NewServer(config.New().Prefix("LANGID_SRV_")).Addr(); got != ":12345" {
		t.Fatalf("addr = %q", got)
	}

	var sawMux bool
	srv := phttp.NewServer(config.New().Prefix("LANGID_SRV_UNSET_"), func(m *chi.Mux) {
		sawMux = m != nil
	})
	if !sawMux {
		t.Fatal("option did not receive the mux")
	}
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /ping = %d %q", rec.Code, rec.Body.String())
	}
}

// run starts srv in the background and returns the channel Run reports on
func run(ctx context.Context, srv *phttp.Server) <-chan error {
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	return done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServer_Run(t *testing.T) {
	t.Setenv("LANGID_RUN_PORT", "127.0.0.1:0")
	t.Setenv("LANGID_RUN_SHUTDOWN_GRACE", "500ms")
	cfg := config.New().Prefix("LANGID_RUN_")

	t.Run("shutdown", func(t *testing.T) {
		srv := phttp.NewServer(cfg)
		done := run(context.Background(), srv)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Fatalf("Shutdown = %v", err)
		}
		wait(t, done)
	})

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := run(ctx, phttp.NewServer(cfg))
		cancel()
		wait(t, done)
	})
}

func TestServer_RunListenError(t *testing.T) {
	t.Setenv("LANGID_BAD_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New().Prefix("LANGID_BAD_")).Run(context.Background()); err == nil {
		t.Fatal("Run accepted an invalid address")
	}
}
