package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var modelFlag string
	var jsonFlag bool
	var markupFlag bool

	ctx := newCommandContext(&modelFlag, &jsonFlag, &markupFlag)

	rootCmd := &cobra.Command{
		Use:           "langid",
		Short:         "Identify the language of text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model artifact path (default: $LANGID_MODEL_PATH or the embedded seed model)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write JSON instead of text")
	rootCmd.PersistentFlags().BoolVar(&markupFlag, "markup", false, "Skip HTML tags and entities")

	rootCmd.AddCommand(newDetectCommand(ctx))
	rootCmd.AddCommand(newFrequentCommand(ctx))
	rootCmd.AddCommand(newSpansCommand(ctx))
	rootCmd.AddCommand(newPackCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newVersionCommand(ctx))

	return rootCmd
}
