// Package net carries request scoped ids on a context. The request id shares
// chi's key so chi middleware and this package agree on it
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type modelIDKey struct{}

// WithRequest stores the request id and the id of the model serving the request;
// empty values are skipped
func WithRequest(ctx context.Context, reqID, modelID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if modelID != "" {
		ctx = context.WithValue(ctx, modelIDKey{}, modelID)
	}
	return ctx
}

// RequestID returns the request id or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// ModelID returns the id of the model that served the request or ""
func ModelID(ctx context.Context) string {
	id, _ := ctx.Value(modelIDKey{}).(string)
	return id
}
