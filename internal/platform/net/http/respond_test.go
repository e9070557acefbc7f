package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "langid/internal/platform/errors"
	pnet "langid/internal/platform/net"
	phttp "langid/internal/platform/net/http"
)

// helper to build a request carrying a request id and model id
func reqWith(method, path, rid, mid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid, mid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (%q)", err, rec.Body.String())
	}
	return env
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWith("GET", "/x", "rid-1", "model-1"), map[string]string{"language": "fr"})
	if rec.Code != http.StatusOK {
		t.Fatalf("RespondOK code: %d", rec.Code)
	}
	env := decode(t, rec)
	if env.StatusCode != 200 || env.Status != "OK" || env.RequestID != "rid-1" || env.ModelID != "model-1" {
		t.Fatalf("bad envelope: %+v", env)
	}
	if m, ok := env.Data.(map[string]any); !ok || m["language"] != "fr" {
		t.Fatalf("data = %#v", env.Data)
	}
	if env.Code != perr.ErrorCodeUnknown || env.Error != "" {
		t.Fatalf("success envelope carries error: %+v", env)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   perr.ErrorCode
		field  string
	}{
		{"not found", perr.New(perr.ErrorCodeNotFound, "nope"), http.StatusNotFound, perr.ErrorCodeNotFound, ""},
		{"too large", perr.TooLargef("text exceeds %d bytes", 10), http.StatusRequestEntityTooLarge, perr.ErrorCodeTooLarge, ""},
		{"validation field", perr.WithField(perr.Validationf("top must be at most 5"), "top"), http.StatusBadRequest, perr.ErrorCodeValidation, "top"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.RespondError(rec, reqWith("POST", "/err", "rid-3", "model-3"), tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			env := decode(t, rec)
			if env.Code != tc.code || env.Field != tc.field || env.Error == "" {
				t.Fatalf("bad error envelope: %+v", env)
			}
			if env.RequestID != "rid-3" || env.ModelID != "model-3" || env.Data != nil {
				t.Fatalf("bad error envelope: %+v", env)
			}
		})
	}
}

func TestHandle_OKAndNoContent(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK([]string{"en", "fr"})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWith("GET", "/ok", "rid-4", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("handle OK code: %d", rec.Code)
	}
	if env := decode(t, rec); env.RequestID != "rid-4" || env.ModelID != "" {
		t.Fatalf("bad envelope: %+v", env)
	}

	hz := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Response{Body: "zero status"}
	})
	recZ := httptest.NewRecorder()
	hz(recZ, reqWith("GET", "/zero", "rid-5", ""))
	if recZ.Code != http.StatusOK {
		t.Fatalf("zero status should default to 200, got %d", recZ.Code)
	}

	hn := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.NoContent()
	})
	recN := httptest.NewRecorder()
	hn(recN, reqWith("DELETE", "/no", "rid-6", ""))
	if recN.Code != http.StatusNoContent || recN.Body.Len() != 0 {
		t.Fatalf("handle NoContent code=%d body=%q", recN.Code, recN.Body.String())
	}
}

func TestHandle_ErrorAndHeaders(t *testing.T) {
	hErr := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(perr.New(perr.ErrorCodeTooManyRequests, "slow down"))
	})
	rec := httptest.NewRecorder()
	hErr(rec, reqWith("GET", "/err", "rid-7", ""))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("handle error code: %d", rec.Code)
	}

	hHdr := phttp.Handle(func(r *http.Request) phttp.Response {
		resp := phttp.OK("hello")
		resp.Header = http.Header{}
		resp.Header.Set("X-Model-Id", "m-1")
		return resp
	})
	rec2 := httptest.NewRecorder()
	hHdr(rec2, reqWith("GET", "/hdr", "rid-8", ""))
	if got := rec2.Header().Get("X-Model-Id"); got != "m-1" {
		t.Fatalf("expected header, got %q", got)
	}
	if s, ok := decode(t, rec2).Data.(string); !ok || s != "hello" {
		t.Fatalf("data = %#v", decode(t, rec2).Data)
	}
}
