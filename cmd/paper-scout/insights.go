// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/report"
	"github.com/pdiddy/paper-scout/internal/synthesis"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var insightsCmd = &cobra.Command{
	Use:   "insights [file]",
	Short: "Synthesize themes, strengths, weaknesses and gaps across papers",
	Long: `Insights reads summaries (the JSON printed by summarize --json) and asks
the configured generation backend for the common themes, pros, cons and
research gaps across them. With --papers the input is papers instead, and
they are summarized first.

Requires a generation backend (generation.backend: openai, genai or claude).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		synth, err := buildSynthesizer(cmd.Context(), cfg.Generation, logger)
		if err != nil {
			return err
		}

		in, err := openInput(inputArg(args))
		if err != nil {
			return err
		}
		defer in.Close()

		var summaries []types.Summary
		if flagBool(cmd, "papers") {
			papers, err := report.ReadPapers(in)
			if err != nil {
				return err
			}
			engine, err := buildEngine(cmd.Context(), cfg, false, logger)
			if err != nil {
				return err
			}
			topN, _ := cmd.Flags().GetInt("top-n")
			if summaries, err = engine.SummarizePapers(cmd.Context(), papers, topN); err != nil {
				return err
			}
		} else if summaries, err = report.ReadSummaries(in); err != nil {
			return err
		}

		insights, err := synth.Insights(cmd.Context(), summaries)
		if err != nil {
			return err
		}
		if flagBool(cmd, "json") {
			return report.FormatJSON(insights, cmd.OutOrStdout())
		}
		if insights.IsEmpty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No insights returned.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), synthesis.FormatRaw(insights))
		return nil
	},
}

func init() {
	insightsCmd.Flags().Bool("papers", false, "input holds papers rather than summaries")
	insightsCmd.Flags().Int("top-n", 2, "sentences per extractive summary (with --papers)")
	insightsCmd.Flags().Bool("json", false, "output insights as JSON")

	rootCmd.AddCommand(insightsCmd)
}
