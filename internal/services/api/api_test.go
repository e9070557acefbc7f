package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"langid/internal/core/langid/langidtest"
	"langid/internal/modkit/module"
	"langid/internal/platform/config"
	perr "langid/internal/platform/errors"
	phttp "langid/internal/platform/net/http"
	"langid/internal/platform/net/middleware"
	kit "langid/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func newAPI(t *testing.T, opt Options) http.Handler {
	t.Helper()
	kit.Serial(t)
	module.Reset()
	t.Cleanup(module.Reset)
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, opt)
	return r.Mux()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestMount_Routes(t *testing.T) {
	id := langidtest.Identifier(t)
	h := newAPI(t, Options{Config: config.New().Prefix("LANGID_API_TEST_"), LangID: id})

	tests := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/ready", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/model", "", http.StatusOK},
		{http.MethodPost, "/api/v1/detect/language", `{"text":"This is a test"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/detect/frequent", `{"text":"This is a test","top":2}`, http.StatusOK},
		{http.MethodPost, "/api/v1/detect/batch", `{"texts":["This is a test"]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/detect/spans", `{"text":"This is a test"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/detect/language", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/debug/pprof/", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := do(h, tc.method, tc.path, tc.body)
		if rr.Code != tc.status {
			t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.path, rr.Code, tc.status, rr.Body.String())
		}
	}
}

func TestMount_EnvelopeCarriesModelAndRequestID(t *testing.T) {
	id := langidtest.Identifier(t)
	h := newAPI(t, Options{Config: config.New().Prefix("LANGID_API_TEST_"), LangID: id})

	rr := do(h, http.MethodPost, "/api/v1/detect/language", `{"text":"This is a test"}`)
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.ModelID != id.Model().ID || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}
	if got := rr.Header().Get(middleware.HeaderModelID); got != id.Model().ID {
		t.Fatalf("%s = %q", middleware.HeaderModelID, got)
	}
}

func TestMount_WithoutModel(t *testing.T) {
	h := newAPI(t, Options{Config: config.New().Prefix("LANGID_API_TEST_"), Started: time.Now()})

	if rr := do(h, http.MethodGet, "/api/v1/meta/ready", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready = %d", rr.Code)
	}
	rr := do(h, http.MethodPost, "/api/v1/detect/language", `{"text":"This is a test"}`)
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if rr.Code != http.StatusServiceUnavailable || env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("detect = %d %+v", rr.Code, env)
	}
	if rr := do(h, http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Fatalf("heartbeat = %d", rr.Code)
	}
}

func TestMount_Profiler(t *testing.T) {
	h := newAPI(t, Options{Config: config.New().Prefix("LANGID_API_TEST_"), EnableProfiler: true})
	if rr := do(h, http.MethodGet, "/debug/pprof/", ""); rr.Code != http.StatusOK {
		t.Fatalf("pprof = %d", rr.Code)
	}
}

func TestStackFromConfig(t *testing.T) {
	c := config.New().Prefix("LANGID_STACK_TEST_")
	got := StackFromConfig(c)
	if got.Timeout != 30*time.Second || got.Slow != 0 || got.MaxInFlight != 0 || got.CORSOrigins != nil {
		t.Fatalf("defaults = %+v", got)
	}
	t.Setenv("LANGID_STACK_TEST_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LANGID_STACK_TEST_SLOW_REQUEST", "250ms")
	t.Setenv("LANGID_STACK_TEST_MAX_IN_FLIGHT", "16")
	got = StackFromConfig(c)
	if len(got.CORSOrigins) != 2 || got.Slow != 250*time.Millisecond || got.MaxInFlight != 16 {
		t.Fatalf("overrides = %+v", got)
	}
}
