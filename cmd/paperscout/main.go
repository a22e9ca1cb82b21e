// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperscout CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperscout/internal/logging"
	"github.com/pdiddy/paperscout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built from the log flags before any subcommand runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the paperscout CLI.
var rootCmd = &cobra.Command{
	Use:   "paperscout",
	Short: "Collect author emails from academic paper indexes",
	Long: `paperscout walks the proceedings listings of a paper index, visits every
paper page, and records one row per author with whatever name, email, and
affiliation it can recover from page metadata, page text, or the paper PDF.

Rows are appended to a CSV file as each paper completes, so an interrupted
crawl keeps everything written so far.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logConfig())

		dir := viper.GetString("secrets_dir")
		if dir == "" {
			dir = secrets.DefaultDir
		}
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paperscout.yaml or ~/.config/paperscout/paperscout.yaml)")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of secret files")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperscout"))
		}
	}

	bindEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func logConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if v := viper.GetString("log.level"); v != "" {
		cfg.Level = v
	}
	if v := viper.GetString("log.format"); v != "" {
		cfg.Format = v
	}
	if v := viper.GetString("log.output"); v != "" {
		cfg.Output = v
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
