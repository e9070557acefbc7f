// Command langid identifies languages and builds model artifacts
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"langid/internal/platform/config/raw"
	"langid/internal/platform/logger"
)

func main() {
	// stdout carries results; logs go to stderr and stay quiet unless asked
	opts := logger.FromEnv()
	opts.Writer = os.Stderr
	opts.Level = raw.New().Prefix("LOG_").Get("LEVEL", "warn")
	logger.Init(opts)

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
