package httpkit

import (
	"net/http"
	"strings"
)

// APIVersion is the version segment the public API is served under
const APIVersion = "v1"

// APIPrefix returns the mount path for an API version, "/api/v1" for "v1" or "/v1"
func APIPrefix(version string) string {
	return "/api/" + strings.Trim(version, "/")
}

// MountUnder scopes register to prefix with its own middleware chain
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, register func(Router)) {
	r.Route(prefix, scoped(mw, register))
}

// MountAPI scopes register under APIPrefix(version)
//
//	httpkit.MountAPI(r, httpkit.APIVersion, httpkit.CommonStack(stack), func(api httpkit.Router) {
//		detect.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, register func(Router)) {
	MountUnder(r, APIPrefix(version), mw, register)
}

// MountAPIV1 mounts register under the current APIVersion
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, register func(Router)) {
	MountAPI(r, APIVersion, mw, register)
}

func scoped(mw []func(http.Handler) http.Handler, register func(Router)) func(Router) {
	return func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		register(sub)
	}
}
