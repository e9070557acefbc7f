// Package bind decodes and validates JSON request bodies for handlers
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "langid/internal/platform/errors"
	"langid/internal/platform/logger"

	"github.com/go-playground/validator/v10"
)

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB, also used when <= 0
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

const defaultMaxBytes = 1 << 20

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: defaultMaxBytes, DisallowUnknown: true}
}

// trailing-data check; tests swap it
var jsonMore = func(dec *json.Decoder) bool { return dec.More() }

// ParseJSON decodes one JSON value into T and validates it. Failures map to
// ErrorCodeJSON, ErrorCodeTooLarge or ErrorCodeValidation with the field set
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	body := bufio.NewReader(http.MaxBytesReader(nil, r.Body, o.MaxBytes))
	if _, err := body.Peek(1); err != nil && !o.AllowEmptyBody {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return zero, perr.TooLargef("body exceeds %d bytes", o.MaxBytes)
		case o.AllowEmptyBody && errors.Is(err, io.EOF):
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := check(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func check(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		// T is not a struct; nothing to validate against
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.JSONErrf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.Validationf("%s", msg), field)
}
