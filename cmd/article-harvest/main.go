// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-harvest CLI.
// The extract, transform and catalog stages are separate subcommands so an
// external scheduler can run them in sequence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-harvest/internal/observability"
	"github.com/pdiddy/article-harvest/internal/secrets"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appCfg and logger are assembled once per invocation in PersistentPreRunE.
var (
	appCfg types.PipelineConfig
	logger zerolog.Logger
)

// rootCmd is the base command for the article-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "article-harvest",
	Short: "Harvest and consolidate bibliographic metadata from academic databases",
	Long: `article-harvest pulls article metadata (id, title, journal, authors,
publication date) from PubMed, Scopus, Web of Science, IEEE Xplore, Google
Scholar and SciELO, normalizes it into one record shape, and writes raw,
combined and cleaned corpora as CSV and Parquet.

Stages are subcommands: extract, transform and catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		logger = observability.NewLogger(cfg.Logging, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info().Str("path", used).Msg("using config file")
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := applySecrets(&cfg, secretsDir, envFile); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		appCfg = cfg
		return nil
	},
}

// applySecrets fills missing provider API keys from the secrets directory,
// the environment and the dotenv file.
func applySecrets(cfg *types.PipelineConfig, secretsDir, envFile string) error {
	files, err := secrets.Load(secretsDir, logger)
	if err != nil {
		return err
	}
	dotenv, err := secrets.LoadEnvFile(envFile)
	if err != nil {
		return err
	}

	keys := secrets.Resolve(files, dotenv, os.Getenv)
	secrets.Apply(&cfg.Extraction, keys)

	if len(keys) > 0 {
		names := make([]string, 0, len(keys))
		for src := range keys {
			names = append(names, src.Slug())
		}
		sort.Strings(names)
		logger.Debug().Strs("sources", names).Msg("loaded API keys")
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-harvest.yaml or ~/.config/article-harvest/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with API keys")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-harvest"))
		}
	}

	viper.SetEnvPrefix("ARTICLE_HARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultPipelineConfig())
	viper.BindEnv("extraction.max_results", "ARTICLE_HARVEST_EXTRACTION_MAX_RESULTS", "MAX_RESULTS")

	viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
