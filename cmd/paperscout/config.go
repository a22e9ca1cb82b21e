// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/secrets"
	"github.com/pdiddy/paperscout/internal/sites"
	"github.com/pdiddy/paperscout/pkg/types"
)

// configKeys are the settings that may come from the config file or from
// PAPERSCOUT_-prefixed environment variables (PAPERSCOUT_HTTP_TIMEOUT, ...).
var configKeys = []string{
	"http.timeout", "http.user_agent", "http.max_retries", "http.backoff_base",
	"http.retry_statuses", "http.max_body_bytes", "http.rate_per_second",
	"pacing.delay_base", "pacing.jitter_fraction",
	"limits.max_groups", "limits.max_items_per_group", "limits.max_papers_per_venue", "limits.max_years",
	"years.start_year", "years.end_year",
	"extraction.text_name_tokens", "extraction.pdf_name_tokens", "extraction.pdf_engine",
	"output.csv_path", "output.db_path",
}

var configCmd = &cobra.Command{
	Use:   "config [site]",
	Short: "Print the effective crawl configuration as YAML",
	Long: `Config resolves defaults, the site's own pacing and output file, the config
file, environment variables, and flags in that order, and prints the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	addCrawlFlags(configCmd.Flags())
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	var site *crawl.Site
	if len(args) == 1 {
		s, err := sites.Lookup(args[0])
		if err != nil {
			return err
		}
		site = s
	}
	cfg, err := resolveConfig(cmd.Flags(), site)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// addCrawlFlags registers the flags that override crawl settings.
func addCrawlFlags(fs *pflag.FlagSet) {
	fs.Int("start-year", 0, "first year to crawl (required for acl)")
	fs.Int("end-year", 0, "last year to crawl (required for acl)")
	fs.Int("max-groups", 0, "cap on top-level groups (0 = no cap)")
	fs.Int("max-items", 0, "cap on items per group (0 = no cap)")
	fs.Int("max-papers", 0, "cap on papers per venue (0 = no cap)")
	fs.Int("max-years", 0, "cap on years visited (0 = no cap)")
	fs.Duration("delay", 0, "base delay after each fetch (default per site)")
	fs.Float64("jitter", 0, "jitter as a fraction of the base delay (default per site)")
	fs.Duration("timeout", 0, "HTTP request timeout (default 15s)")
	fs.Float64("rate", 0, "cap on requests per second (0 = no cap)")
	fs.String("user-agent", "", "HTTP user agent")
	fs.String("output", "", "CSV output path (default per site)")
	fs.String("db", "", "also mirror records into this SQLite database")
	fs.String("pdf-engine", "", "PDF text engine: auto, pdftotext, native, or none")
	fs.Int("text-tokens", 0, "name window for page text scans (default 4)")
	fs.Int("pdf-tokens", 0, "name window for PDF text scans (default 2)")
}

// bindEnv maps every config key to its PAPERSCOUT_ environment variable.
func bindEnv() {
	viper.SetEnvPrefix("PAPERSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, k := range configKeys {
		_ = viper.BindEnv(k)
	}
}

// resolveConfig builds the immutable crawl configuration: defaults, then
// the site's pacing and output file, then config file and environment, then
// explicitly set flags.
func resolveConfig(fs *pflag.FlagSet, site *crawl.Site) (types.CrawlConfig, error) {
	cfg := types.DefaultCrawlConfig()
	if site != nil {
		cfg.Pacing = site.Pacing
		cfg.Output.CSVPath = site.Output
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	applyFlags(fs, &cfg)
	cfg.HTTP.UserAgent = secrets.UserAgent(cfg.HTTP.UserAgent, loadedSecrets)

	if err := validateConfig(cfg, site); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(fs *pflag.FlagSet, cfg *types.CrawlConfig) {
	ints := map[string]*int{
		"start-year":  &cfg.Years.Start,
		"end-year":    &cfg.Years.End,
		"max-groups":  &cfg.Limits.MaxGroups,
		"max-items":   &cfg.Limits.MaxItemsPerGroup,
		"max-papers":  &cfg.Limits.MaxPapersPerVenue,
		"max-years":   &cfg.Limits.MaxYears,
		"text-tokens": &cfg.Extraction.TextNameTokens,
		"pdf-tokens":  &cfg.Extraction.PDFNameTokens,
	}
	for name, dst := range ints {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}
	if fs.Changed("delay") {
		cfg.Pacing.DelayBase, _ = fs.GetDuration("delay")
	}
	if fs.Changed("jitter") {
		cfg.Pacing.JitterFraction, _ = fs.GetFloat64("jitter")
	}
	if fs.Changed("timeout") {
		cfg.HTTP.Timeout, _ = fs.GetDuration("timeout")
	}
	if fs.Changed("rate") {
		cfg.HTTP.RatePerSecond, _ = fs.GetFloat64("rate")
	}
	if fs.Changed("user-agent") {
		cfg.HTTP.UserAgent, _ = fs.GetString("user-agent")
	}
	if fs.Changed("output") {
		cfg.Output.CSVPath, _ = fs.GetString("output")
	}
	if fs.Changed("db") {
		cfg.Output.DBPath, _ = fs.GetString("db")
	}
	if fs.Changed("pdf-engine") {
		engine, _ := fs.GetString("pdf-engine")
		cfg.Extraction.PDFEngine = types.PDFEngineChoice(strings.ToLower(engine))
	}
}

func validateConfig(cfg types.CrawlConfig, site *crawl.Site) error {
	y := cfg.Years
	if y.Start < 0 || y.End < 0 {
		return fmt.Errorf("years must be positive, got %d-%d", y.Start, y.End)
	}
	if y.Start > 0 && y.End > 0 && y.Start > y.End {
		return fmt.Errorf("start year %d is after end year %d", y.Start, y.End)
	}
	if site != nil && site.RequiresYears && (y.Start == 0 || y.End == 0) {
		return fmt.Errorf("%s needs a year range: pass --start-year and --end-year", site.Key)
	}
	l := cfg.Limits
	if l.MaxGroups < 0 || l.MaxItemsPerGroup < 0 || l.MaxPapersPerVenue < 0 || l.MaxYears < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if cfg.Pacing.DelayBase < 0 || cfg.Pacing.JitterFraction < 0 {
		return fmt.Errorf("pacing must not be negative")
	}
	if site != nil && cfg.Output.CSVPath == "" {
		return fmt.Errorf("no output path: pass --output")
	}
	return nil
}
