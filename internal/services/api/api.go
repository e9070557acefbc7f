// Package api provides the HTTP API for the application
package api

import (
	"time"

	"langid/internal/core/langid"
	"langid/internal/platform/config"
	"langid/internal/platform/logger"
	phttp "langid/internal/platform/net/http"
	"langid/internal/platform/net/middleware"

	"langid/internal/modkit"
	"langid/internal/modkit/httpkit"
	"langid/internal/modkit/module"

	metamod "langid/internal/services/api/meta/module"
	detectmod "langid/internal/services/detect/module"
)

// Options are the API options
type Options struct {
	// Config is already scoped to the API prefix
	Config config.Conf
	Logger *logger.Logger
	// LangID may be nil; detect then answers 503 and meta reports not ready
	LangID         *langid.Identifier
	Started        time.Time
	EnableProfiler bool
	Stack          httpkit.StackOptions
}

// StackFromConfig reads the middleware tuning for the api scope
func StackFromConfig(cfg config.Conf) httpkit.StackOptions {
	return httpkit.StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:     cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:        cfg.MayDuration("SLOW_REQUEST", 0),
		MaxInFlight: cfg.MayInt("MAX_IN_FLIGHT", 0),
	}
}

// Mount mounts the API service onto the given router. r must not have routes yet
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		LangID:  opt.LangID,
		Started: opt.Started,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	} else {
		deps.Log = *logger.Get()
	}
	if deps.Started.IsZero() {
		deps.Started = time.Now()
	}

	stack := opt.Stack
	if stack.ModelID == "" {
		stack.ModelID = deps.ModelID()
	}

	mods := []module.Module{
		metamod.New(deps),
		detectmod.New(deps),
	}

	// liveness for load balancers, outside the versioned stack
	r.Use(middleware.Heartbeat("/health"))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	deps.Log.Info().
		Str("model_id", stack.ModelID).
		Int("modules", len(mods)).
		Bool("profiler", opt.EnableProfiler).
		Msg("api mounted")
}
