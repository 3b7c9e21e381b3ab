// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/internal/report"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query...>",
	Short: "Search the catalogs and rank papers by relevance",
	Long: `Retrieve sends the query to every enabled source concurrently, merges the
candidates in source priority order, and ranks them by cosine similarity
between the query and each abstract. A source that fails is reported and
skipped; the remaining sources still contribute.

Output is a table by default, JSON with --json, or CSL-YAML with --csl.
--out also saves the result as a YAML file that summarize can read back.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("limit") {
			cfg.Sources.Limit, _ = cmd.Flags().GetInt("limit")
		}
		if cmd.Flags().Changed("sources") {
			names, _ := cmd.Flags().GetStringSlice("sources")
			cfg.Sources.Enabled = nil
			for _, n := range names {
				cfg.Sources.Enabled = append(cfg.Sources.Enabled, types.SourceName(strings.TrimSpace(n)))
			}
		}
		topK := cfg.TopK
		if cmd.Flags().Changed("top-k") {
			topK, _ = cmd.Flags().GetInt("top-k")
		}

		engine, err := buildEngine(cmd.Context(), cfg, true, logger)
		if err != nil {
			return err
		}
		res, err := engine.RetrieveAndRank(cmd.Context(), strings.Join(args, " "), topK)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := report.WriteResultsFile(out, res, topK, cfg.Sources.Limit); err != nil {
				return err
			}
			logger.Info("results saved", zap.String("path", out))
		}

		noteNoCandidates(cmd.ErrOrStderr(), res)

		w := cmd.OutOrStdout()
		if withSummaries, _ := cmd.Flags().GetBool("summarize"); withSummaries {
			topN := cfg.TopN
			if cmd.Flags().Changed("top-n") {
				topN, _ = cmd.Flags().GetInt("top-n")
			}
			summaries, err := engine.SummarizePapers(cmd.Context(), res.Papers, topN)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return report.FormatJSON(struct {
					Query     string          `json:"query"`
					Summaries []types.Summary `json:"summaries"`
				}{res.Query, summaries}, w)
			}
			report.FormatSummaries(summaries, w)
			return nil
		}

		switch {
		case flagBool(cmd, "json"):
			return report.FormatJSON(res, w)
		case flagBool(cmd, "csl"):
			return report.FormatCSL(res.Papers, w)
		default:
			report.FormatTable(res, w)
		}
		return nil
	},
}

// noteNoCandidates tells the user on w when a non-empty query produced no
// candidates at all, whatever the output format.
func noteNoCandidates(w io.Writer, res pipeline.Result) {
	if res.Query == "" || res.Candidates > 0 {
		return
	}
	logger.Warn("no candidates", zap.String("query", res.Query), zap.Int("sources", len(res.Sources)))
	fmt.Fprintln(w, "no candidates: every source failed or returned nothing")
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func init() {
	retrieveCmd.Flags().Int("top-k", 6, "number of ranked papers to return")
	retrieveCmd.Flags().Int("limit", 10, "results requested from each source")
	retrieveCmd.Flags().StringSlice("sources", nil, "sources in priority order (arxiv,pubmed,semantic_scholar,openalex)")
	retrieveCmd.Flags().Bool("json", false, "output results as JSON")
	retrieveCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	retrieveCmd.Flags().String("out", "", "also save results to this YAML file")
	retrieveCmd.Flags().Bool("summarize", false, "summarize the ranked papers")
	retrieveCmd.Flags().Int("top-n", 2, "sentences per extractive summary (with --summarize)")
	retrieveCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(retrieveCmd)
}
