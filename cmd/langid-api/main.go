// Command langid-api serves language identification over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"langid/internal/core/langid"
	"langid/internal/platform/config"
	"langid/internal/platform/logger"
	phttp "langid/internal/platform/net/http"

	"langid/internal/services/api"
)

func main() {
	started := time.Now()

	// .env before anything reads the environment
	loaded, dotErr := config.LoadDotenv()

	// bring up logging early
	l := logger.Get()
	if dotErr != nil {
		l.Warn().Err(dotErr).Msg("failed to read .env")
	} else if len(loaded) > 0 {
		l.Debug().Strs("files", loaded).Msg("loaded env files")
	}

	root := config.New()
	lidCfg := root.Prefix("LANGID_")
	// service-scoped config for HTTP etc (CORE_API_*)
	apiCfg := root.Prefix("CORE_API_")

	id := loadIdentifier(lidCfg, l, started)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT etc)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Logger:         l,
			LangID:         id,
			Started:        started,
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Stack:          api.StackFromConfig(apiCfg),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("langid-api stopped")
}

// loadIdentifier opens LANGID_MODEL_PATH, or the embedded model when unset.
// A missing or corrupt artifact is logged and yields nil so meta keeps serving
// and detect answers 503
func loadIdentifier(cfg config.Conf, l *logger.Logger, started time.Time) *langid.Identifier {
	path := cfg.MayString("MODEL_PATH", "")
	id, err := langid.Open(path, langid.Options{
		MinInputBytes: cfg.MayInt("MIN_INPUT_BYTES", 0),
		MaxInputBytes: cfg.MayInt("MAX_INPUT_BYTES", 0),
	})
	if err != nil {
		l.Error().Err(err).Str("path", path).Msg("language model unavailable")
		return nil
	}

	m := id.Model()
	source := path
	if source == "" {
		source = "embedded"
	}
	l.Info().
		Str("model_id", m.ID).
		Str("model", m.Name).
		Str("source", source).
		Int("languages", len(m.Languages())).
		Dur("load", time.Since(started)).
		Msg("language model loaded")
	return id
}
