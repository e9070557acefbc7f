package modkit

import (
	"time"

	"langid/internal/core/langid"
	"langid/internal/platform/config"
	perr "langid/internal/platform/errors"
	"langid/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// LangID is the shared identifier; it is immutable and safe for concurrent use
	LangID *langid.Identifier
	// Started is the process start time reported by meta
	Started time.Time
}

// Ready reports whether the deps can serve detection traffic
func (d Deps) Ready() error {
	if d.LangID == nil {
		return perr.Unavailablef("no language model loaded")
	}
	return nil
}

// ModelID returns the id of the loaded model or "" when none is loaded
func (d Deps) ModelID() string {
	if d.LangID == nil {
		return ""
	}
	return d.LangID.Model().ID
}
