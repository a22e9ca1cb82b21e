// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/sink"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [csv]",
	Short: "Summarize collected records per venue and track",
	Long: `Summary reads a crawl's CSV output and prints record counts per
year/conference/track, the year span of each conference/track, and a few
sample rows. With --db the same summary is computed from the SQLite mirror.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().String("db", "", "summarize this SQLite mirror instead of a CSV file")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	var summary sink.Summary
	switch {
	case dbPath != "":
		store, err := sink.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		summary, err = store.Summary(cmd.Context())
		if err != nil {
			return err
		}
	case len(args) == 1:
		records, err := sink.ReadCSV(args[0])
		if err != nil {
			return err
		}
		summary = sink.Summarize(records)
	default:
		return fmt.Errorf("provide a CSV file or --db")
	}

	summary.Print(cmd.OutOrStdout())
	return nil
}
