package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"langid/internal/core/langid/langidtest"
	"langid/internal/core/version"
	"langid/internal/modkit"
	modreg "langid/internal/modkit/module"
	"langid/internal/platform/config"
	perr "langid/internal/platform/errors"
	phttp "langid/internal/platform/net/http"
	kit "langid/internal/platform/testkit"
	metahttp "langid/internal/services/api/meta/http"
	"langid/internal/services/detect/domain"
	detectmod "langid/internal/services/detect/module"

	"github.com/go-chi/chi/v5"
)

type envelope[T any] struct {
	StatusCode int            `json:"status_code"`
	Code       perr.ErrorCode `json:"code"`
	Data       T              `json:"data"`
}

func get[T any](t *testing.T, r phttp.Router, path string) (int, envelope[T]) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope[T]
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("GET %s: bad body %q: %v", path, rr.Body.String(), err)
	}
	return rr.Code, env
}

func mount(mods ...modkit.Module) phttp.Router {
	r := phttp.AdaptChi(chi.NewRouter())
	for _, m := range mods {
		modreg.Register(m.Name(), m.Ports())
		m.MountRoutes(r)
	}
	return r
}

func TestMeta_WithModel(t *testing.T) {
	kit.Serial(t)
	modreg.Reset()
	t.Cleanup(modreg.Reset)

	deps := modkit.Deps{
		Cfg:     config.New().Prefix("LANGID_META_TEST_"),
		LangID:  langidtest.Identifier(t),
		Started: time.Now().Add(-time.Minute),
	}
	r := mount(New(deps), detectmod.New(deps))

	if code, env := get[metahttp.HealthResponse](t, r, "/meta/health"); code != http.StatusOK || !env.Data.OK || env.Data.Service != "langid-api" {
		t.Fatalf("health %d %+v", code, env)
	}
	if code, env := get[metahttp.ReadyResponse](t, r, "/meta/ready"); code != http.StatusOK || env.Data.Status != "ok" {
		t.Fatalf("ready %d %+v", code, env)
	}
	if code, env := get[version.BuildInfo](t, r, "/meta/version"); code != http.StatusOK || env.Data.ModelSchema == 0 {
		t.Fatalf("version %d %+v", code, env)
	}
	if code, env := get[metahttp.ServiceResponse](t, r, "/meta/service"); code != http.StatusOK || env.Data.Uptime < 59 {
		t.Fatalf("service %d %+v", code, env)
	}

	code, mod := get[metahttp.ModelResponse](t, r, "/meta/model")
	if code != http.StatusOK || mod.Data.ID != deps.ModelID() || len(mod.Data.Languages) != 17 || mod.Data.MaxInputBytes != 1000 {
		t.Fatalf("model %d %+v", code, mod)
	}

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/detect/language", strings.NewReader(`{"text":"This is a test"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("detect status = %d", rr.Code)
	}
	if code, env := get[domain.CacheStats](t, r, "/meta/cache"); code != http.StatusOK || !env.Data.Enabled || env.Data.Misses != 1 {
		t.Fatalf("cache %d %+v", code, env)
	}
}

func TestMeta_WithoutModel(t *testing.T) {
	kit.Serial(t)
	modreg.Reset()
	t.Cleanup(modreg.Reset)

	r := mount(New(modkit.Deps{}))

	code, ready := get[metahttp.ReadyResponse](t, r, "/meta/ready")
	if code != http.StatusServiceUnavailable || ready.Data.Status != "fail" || ready.Data.Checks[0].Error == "" {
		t.Fatalf("ready %d %+v", code, ready)
	}
	if code, env := get[metahttp.ModelResponse](t, r, "/meta/model"); code != http.StatusServiceUnavailable || env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("model %d %+v", code, env)
	}
	// no detect module registered
	if code, env := get[domain.CacheStats](t, r, "/meta/cache"); code != http.StatusOK || env.Data.Enabled {
		t.Fatalf("cache %d %+v", code, env)
	}
}
