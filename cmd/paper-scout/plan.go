// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/synthesis"
)

var planCmd = &cobra.Command{
	Use:   "plan --topic <topic> [file]",
	Short: "Draft a research plan from synthesized insights",
	Long: `Plan reads insights (the JSON printed by insights --json) and asks the
configured generation backend for a staged roadmap on the topic: a quick
reproduction, a small extension and a full experiment, each with suggested
papers, datasets and tools.`,
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
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading insights: %w", err)
		}
		insights, err := synthesis.Validate(string(data))
		if err != nil {
			return err
		}

		topic, _ := cmd.Flags().GetString("topic")
		plan, err := synth.Plan(cmd.Context(), insights, topic)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), plan)
		return nil
	},
}

func init() {
	planCmd.Flags().String("topic", "", "research topic the plan addresses")
	_ = planCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(planCmd)
}
