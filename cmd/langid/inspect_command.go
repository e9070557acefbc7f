package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"langid/internal/core/model"
)

// inspectResult is the JSON shape of the inspect command
type inspectResult struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Schema      uint16       `json:"schema"`
	HashVersion int          `json:"hash_version"`
	Languages   []string     `json:"languages"`
	Features    []string     `json:"features"`
	Layers      []string     `json:"layers"`
	Tuning      model.Tuning `json:"tuning"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Describe the loaded model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.identifier()
			if err != nil {
				return err
			}
			res := describe(id.Model())
			if ctx.wantJSON() {
				return writeJSON(cmd, res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "model      %s (%s)\n", res.Name, res.ID)
			fmt.Fprintf(w, "schema     %d, hash version %d\n", res.Schema, res.HashVersion)
			fmt.Fprintf(w, "languages  %d: %s\n", len(res.Languages), strings.Join(res.Languages, " "))
			fmt.Fprintf(w, "layers     %s\n", strings.Join(res.Layers, " -> "))
			fmt.Fprintf(w, "window     %d..%d bytes, spans %d..%d bytes\n",
				id.MinInputBytes(), id.MaxInputBytes(), res.Tuning.MinSpanBytes, res.Tuning.MaxSpanBytes)
			fmt.Fprintf(w, "reliable   p >= %.2f, margin >= %.2f\n", res.Tuning.ReliabilityThreshold, res.Tuning.ReliabilityMargin)

			tables := id.Model().Tables
			rows := make([][]string, 0, len(res.Features))
			for i, f := range res.Features {
				rows = append(rows, []string{strconv.Itoa(i), f, strconv.Itoa(tables[i].Rows)})
			}
			fmt.Fprintln(w, renderTable([]string{"#", "Feature", "Rows"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}
}

func describe(mod *model.Model) inspectResult {
	res := inspectResult{
		ID:          mod.ID,
		Name:        mod.Name,
		Schema:      mod.Schema,
		HashVersion: mod.HashVersion,
		Languages:   mod.Languages(),
		Tuning:      mod.Tuning,
	}
	for _, f := range mod.Features {
		res.Features = append(res.Features, f.String())
	}
	for _, l := range mod.Layers {
		res.Layers = append(res.Layers, fmt.Sprintf("%dx%d", l.Out, l.In))
	}
	return res
}
