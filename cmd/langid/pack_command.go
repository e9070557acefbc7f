package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"langid/internal/core/model"
	"langid/internal/core/modelpack"
	"langid/internal/core/seed"
	"langid/internal/platform/logger"
)

func newPackCommand(_ *commandContext) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pack [manifest.toml]",
		Short: "Compile a model artifact from a seed manifest (the embedded seeds without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()

			var (
				man *modelpack.Manifest
				dir string
				err error
			)
			if len(args) == 1 {
				man, dir, err = modelpack.LoadManifest(args[0])
			} else {
				man, err = modelpack.ParseManifest(seed.Manifest())
			}
			if err != nil {
				return err
			}

			fsys := seed.FS()
			if dir != "" {
				fsys = os.DirFS(dir)
			}
			m, stats, err := modelpack.Compile(cmd.Context(), man, fsys)
			if err != nil {
				return err
			}
			if err := model.Save(out, m); err != nil {
				return err
			}
			logger.Named("pack").Info().
				Str("model_id", m.ID).
				Str("out", out).
				Dur("took", time.Since(started)).
				Msg("model packed")

			rows := make([][]string, 0, len(stats))
			for _, st := range stats {
				rows = append(rows, []string{st.Code, strconv.Itoa(st.Bytes), strconv.Itoa(st.Tokens)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Language", "Bytes", "Tokens"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, id %s)\n", out, m.Name, m.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "model.lidm", "Artifact path to write")
	return cmd
}
