// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/pdftext"
	"github.com/pdiddy/paperscout/internal/sink"
	"github.com/pdiddy/paperscout/internal/sites"
	"github.com/pdiddy/paperscout/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <site>",
	Short: "Crawl one paper index and append author records to CSV",
	Long: `Crawl walks a site's listings down to every paper page and extracts author
names, emails, and affiliations. Each paper's rows are appended as soon as the
paper is done. Ctrl-C stops the crawl after the current step; rows already
written are kept.

Sites: aaai, acl, acm, ceur, swj. Run "paperscout sites" for details.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	addCrawlFlags(crawlCmd.Flags())
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	site, err := sites.Lookup(args[0])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd.Flags(), site)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := crawlSite(ctx, site, cfg, logger)
	if result != nil {
		result.Print(cmd.OutOrStdout())
	}
	return err
}

// crawlSite opens the sinks and PDF engines for cfg and runs the engine
// over site.
func crawlSite(ctx context.Context, site *crawl.Site, cfg types.CrawlConfig, log zerolog.Logger) (*crawl.Result, error) {
	pdf, err := pdftext.Detect(cfg.Extraction.PDFEngine)
	if err != nil {
		return nil, err
	}
	if pdf.Available() {
		log.Info().Strs("engines", pdf.Names()).Msg("PDF text extraction enabled")
	} else {
		log.Warn().Str("choice", string(cfg.Extraction.PDFEngine)).Msg("no PDF text engine available; PDF stage disabled")
	}

	out, closeSinks, err := openSinks(cfg.Output)
	if err != nil {
		return nil, err
	}
	defer closeSinks()

	log.Info().
		Str("site", site.Name).
		Str("output", cfg.Output.CSVPath).
		Dur("delay", cfg.Pacing.DelayBase).
		Msg("starting crawl")

	client := httputil.NewClient(nil, cfg.HTTP)
	engine := crawl.NewEngine(client, pdf, out, cfg, log)
	return engine.Run(ctx, site)
}

// openSinks opens the CSV file and, when configured, the SQLite mirror.
func openSinks(cfg types.OutputConfig) (crawl.Sink, func(), error) {
	csv, err := sink.OpenCSV(cfg.CSVPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBPath == "" {
		return csv, func() {}, nil
	}
	store, err := sink.OpenStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", cfg.DBPath, err)
		}
	}
	return sink.Multi{csv, store}, closeStore, nil
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the supported paper indexes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printSites(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}

func printSites(w io.Writer) {
	for _, s := range sites.All() {
		start := s.StartURL
		if s.Seeds != nil {
			start = "(per year)"
		}
		years := ""
		if s.RequiresYears {
			years = ", needs --start-year/--end-year"
		}
		fmt.Fprintf(w, "%-5s %-22s delay %s jitter %.1f  %s -> %s%s\n",
			s.Key, s.Name, s.Pacing.DelayBase, s.Pacing.JitterFraction, start, s.Output, years)
	}
}
