// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/report"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize papers read from a JSON or results file",
	Long: `Summarize reads papers from a file (or stdin when the file is omitted or
"-") and prints an extractive summary of each abstract: the top-n sentences
most similar to the whole abstract, in their original order. With a
generation backend configured it also prints an abstractive rewrite.

Input is a JSON array of papers, a JSON object with a "papers" array, or a
results file written by retrieve --out. Abstracts may be strings, lists or
objects.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		topN := cfg.TopN
		if cmd.Flags().Changed("top-n") {
			topN, _ = cmd.Flags().GetInt("top-n")
		}

		in, err := openInput(inputArg(args))
		if err != nil {
			return err
		}
		defer in.Close()
		papers, err := report.ReadPapers(in)
		if err != nil {
			return err
		}

		engine, err := buildEngine(cmd.Context(), cfg, false, logger)
		if err != nil {
			return err
		}
		summaries, err := engine.SummarizePapers(cmd.Context(), papers, topN)
		if err != nil {
			return err
		}

		if flagBool(cmd, "json") {
			return report.FormatJSON(summaries, cmd.OutOrStdout())
		}
		report.FormatSummaries(summaries, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	summarizeCmd.Flags().Int("top-n", 2, "sentences per extractive summary")
	summarizeCmd.Flags().Bool("json", false, "output summaries as JSON")

	rootCmd.AddCommand(summarizeCmd)
}
