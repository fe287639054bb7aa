// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the getpaper CLI, covering the two
// pipeline stages: search (crawl a provider for paper metadata) and
// download (bulk-fetch PDFs).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dragon-GCS/GetPeper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the getpaper CLI.
var rootCmd = &cobra.Command{
	Use:   "getpaper",
	Short: "Search academic providers and bulk-download paper PDFs",
	Long: `getpaper crawls an academic search provider (PubMed or ACS) for papers
matching a query, scrapes per-paper metadata concurrently in rank order,
and bulk-downloads PDFs with per-item progress reporting.

Each stage is a subcommand: search crawls metadata and can save results to
CSV or a YAML run file; download fetches one PDF per paper from a saved
run or a DOI list.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./getpaper.yaml or ~/.config/getpaper/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("getpaper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "getpaper"))
		}
	}

	viper.SetEnvPrefix("GETPAPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
