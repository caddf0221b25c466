// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litmap CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litmap/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litmap CLI.
var rootCmd = &cobra.Command{
	Use:   "litmap",
	Short: "Crawl DBLP and map a research literature",
	Long: `litmap crawls the DBLP publication search API for a query and derives
keyword frequencies, yearly topic trends, keyword co-occurrence, co-author
collaboration graphs and title similarity from the results.

Crawls can be saved as YAML session files or in a local SQLite store, and a
saved session feeds the analyze and export subcommands without touching the
network again.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litmap.yaml or ~/.config/litmap/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litmap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litmap"))
		}
	}

	viper.SetEnvPrefix("LITMAP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig materializes the stage configs from viper with defaults.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Crawl: types.CrawlConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "litmap/" + version,
			},
			PageSize:    100,
			Concurrency: 8,
			MaxAttempts: 3,
		},
		Analytics: types.AnalyticsConfig{
			TopKeywords:  25,
			TopAuthors:   20,
			SimilarLimit: 10,
		},
		Store: types.StoreConfig{DataDir: "."},
	}

	if v := viper.GetDuration("crawl.timeout"); v > 0 {
		cfg.Crawl.Timeout = v
	}
	if v := viper.GetString("crawl.user_agent"); v != "" {
		cfg.Crawl.UserAgent = v
	}
	if v := viper.GetInt("crawl.concurrency"); v > 0 {
		cfg.Crawl.Concurrency = v
	}
	if v := viper.GetInt("crawl.max_attempts"); v > 0 {
		cfg.Crawl.MaxAttempts = v
	}
	if v := viper.GetInt("analytics.top_keywords"); v > 0 {
		cfg.Analytics.TopKeywords = v
	}
	if v := viper.GetInt("analytics.top_authors"); v > 0 {
		cfg.Analytics.TopAuthors = v
	}
	if v := viper.GetInt("analytics.similar_limit"); v > 0 {
		cfg.Analytics.SimilarLimit = v
	}
	if v := viper.GetString("store.data_dir"); v != "" {
		cfg.Store.DataDir = v
	}
	return cfg
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
