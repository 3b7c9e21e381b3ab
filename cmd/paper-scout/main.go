// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-scout CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built in PersistentPreRunE; commands use it for everything
	// except their primary output.
	logger = zap.NewNop()

	// loadedSecrets holds API keys from .secrets/ and .env.
	loadedSecrets secrets.Set
)

var rootCmd = &cobra.Command{
	Use:   "paper-scout",
	Short: "Find, rank and summarize recent research papers",
	Long: `paper-scout queries open scholarly catalogs (arXiv, PubMed, Semantic Scholar,
OpenAlex) for a research topic, ranks the candidates by semantic similarity
of their abstracts to the query, and summarizes the most relevant ones.

Summaries are extractive by default. When a generation backend is configured
the CLI also produces abstractive summaries, cross-paper insights and a
research plan.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		envFile, _ := cmd.Flags().GetString("env-file")
		fromDir, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		fromEnv, err := secrets.LoadDotenv(envFile)
		if err != nil {
			return err
		}
		loadedSecrets = fromDir.Merge(fromEnv)
		if len(loadedSecrets) > 0 {
			keys := loadedSecrets.Keys()
			slices.Sort(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-scout.yaml or ~/.config/paper-scout/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with API keys")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-scout"))
		}
	}

	viper.SetEnvPrefix("PAPER_SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	// A missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
