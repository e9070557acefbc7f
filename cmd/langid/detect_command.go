package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"langid/internal/core/langhint"
	"langid/internal/core/langid"
	pstrings "langid/internal/platform/strings"
)

// detectResult is the JSON shape of the detect command
type detectResult struct {
	Prediction *langid.Prediction `json:"prediction"`
	Hint       langhint.Hint      `json:"hint"`
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text...]",
		Short: "Print the most likely language (reads stdin without arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.identifier()
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			out := detectResult{Hint: langhint.Profile(text)}
			if p, ok := id.GetLanguage(text); ok {
				out.Prediction = &p
			}
			if ctx.wantJSON() {
				return writeJSON(cmd, out)
			}
			if out.Prediction == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no language")
				return nil
			}
			p := out.Prediction
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.4f\t%s\n", p.Language, p.Probability, reliability(p.IsReliable))
			return nil
		},
	}
}

func newFrequentCommand(ctx *commandContext) *cobra.Command {
	var top int
	var only []string

	cmd := &cobra.Command{
		Use:   "frequent [text...]",
		Short: "Rank the languages found in mixed-language text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 1 {
				return fmt.Errorf("--top must be at least 1")
			}
			id, err := ctx.identifier()
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			preds := id.GetFrequentLanguages(text, len(id.Model().Languages()))
			preds = filterLanguages(preds, pstrings.Dedupe(only), top)
			if ctx.wantJSON() {
				return writeJSON(cmd, preds)
			}
			rows := make([][]string, 0, len(preds))
			for _, p := range preds {
				rows = append(rows, []string{
					p.Language,
					strconv.FormatFloat(p.Probability, 'f', 4, 64),
					strconv.FormatFloat(p.Proportion, 'f', 3, 64),
					reliability(p.IsReliable),
					strconv.Itoa(len(p.Ranges)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Language", "Probability", "Proportion", "Reliable", "Ranges"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 3, "Maximum number of languages")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Only report these language codes")
	return cmd
}

func newSpansCommand(ctx *commandContext) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "spans [text...]",
		Short: "Show how the text was split and what each span voted for",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.identifier()
			if err != nil {
				return err
			}
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			spans := id.Spans(text)
			if ctx.wantJSON() {
				return writeJSON(cmd, spans)
			}
			rows := make([][]string, 0, len(spans))
			for _, sp := range spans {
				prob := ""
				if sp.Language != "" {
					prob = strconv.FormatFloat(sp.Probability, 'f', 4, 64)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d-%d", sp.Start, sp.End),
					sp.Script,
					sp.Reason,
					sp.Language,
					prob,
					pstrings.Clip(strings.Join(strings.Fields(sp.Text), " "), width),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Bytes", "Script", "Reason", "Language", "Probability", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 48, "Clip span text to this many bytes")
	return cmd
}

func reliability(ok bool) string {
	if ok {
		return "reliable"
	}
	return "unreliable"
}

// filterLanguages keeps up to top predictions whose code is in only; an empty only keeps all
func filterLanguages(preds []langid.Prediction, only []string, top int) []langid.Prediction {
	out := make([]langid.Prediction, 0, min(top, len(preds)))
	for _, p := range preds {
		if len(out) == top {
			break
		}
		if len(only) > 0 && !slices.Contains(only, p.Language) {
			continue
		}
		out = append(out, p)
	}
	return out
}
