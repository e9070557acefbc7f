package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"langid/internal/core/version"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info()
			info.Service = "langid"
			if ctx.wantJSON() {
				return writeJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s, model schema %d, hash v%d)\n",
				info.Service, info.Version, info.Commit, info.Date, info.ModelSchema, info.HashVersion)
			return nil
		},
	}
}
