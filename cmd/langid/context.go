package main

import (
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"langid/internal/core/langid"
	"langid/internal/platform/config"
	"langid/internal/platform/logger"
)

type commandContext struct {
	modelFlag  *string
	jsonFlag   *bool
	markupFlag *bool

	idOnce sync.Once
	id     *langid.Identifier
	idErr  error
}

func newCommandContext(modelFlag *string, jsonFlag, markupFlag *bool) *commandContext {
	return &commandContext{
		modelFlag:  modelFlag,
		jsonFlag:   jsonFlag,
		markupFlag: markupFlag,
	}
}

// modelPath prefers --model over LANGID_MODEL_PATH
func (c *commandContext) modelPath() string {
	if c.modelFlag != nil {
		if p := strings.TrimSpace(*c.modelFlag); p != "" {
			return p
		}
	}
	return config.New().Prefix("LANGID_").MayString("MODEL_PATH", "")
}

func (c *commandContext) identifier() (*langid.Identifier, error) {
	c.idOnce.Do(func() {
		_, _ = config.LoadDotenv()
		cfg := config.New().Prefix("LANGID_")
		path := c.modelPath()
		c.id, c.idErr = langid.Open(path, langid.Options{
			MinInputBytes: cfg.MayInt("MIN_INPUT_BYTES", 0),
			MaxInputBytes: cfg.MayInt("MAX_INPUT_BYTES", 0),
			Markup:        c.markupFlag != nil && *c.markupFlag,
		})
		if c.idErr == nil {
			logger.Named("cli").Debug().Str("model_id", c.id.Model().ID).Str("path", path).Msg("model ready")
		}
	})
	return c.id, c.idErr
}

func (c *commandContext) wantJSON() bool { return c.jsonFlag != nil && *c.jsonFlag }

// inputText joins args, or reads stdin when there are none or the only arg is "-"
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return strings.Join(args, " "), nil
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
