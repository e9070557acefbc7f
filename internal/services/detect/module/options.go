package module

import (
	"langid/internal/platform/config"
	"langid/internal/services/detect/service"
)

// Options controls detect behavior
type Options struct {
	Service service.Config
	// MaxBodyBytes bounds every request body
	MaxBodyBytes int64
}

// FromConfig reads detect values under cfg's prefix
func FromConfig(dc config.Conf) Options {
	return Options{
		Service: service.Config{
			CacheSize:    dc.MayInt("CACHE_SIZE", 4096),
			BatchWorkers: dc.MayInt("BATCH_WORKERS", 4),
			MaxBatch:     dc.MayInt("MAX_BATCH", 64),
		},
		MaxBodyBytes: dc.MayBytes("MAX_BODY_BYTES", 1<<20),
	}
}
