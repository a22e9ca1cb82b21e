// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"io"
	"time"
)

// Result summarizes one crawl run.
type Result struct {
	Site         string
	Pages        int
	Papers       int
	Records      int
	Emails       int
	Placeholders int
	Skipped      []*StepError
	Interrupted  bool
	Elapsed      time.Duration
}

// SkippedByKind counts skipped branches per error kind.
func (r *Result) SkippedByKind() map[ErrorKind]int {
	m := make(map[ErrorKind]int)
	for _, s := range r.Skipped {
		m[s.Kind]++
	}
	return m
}

// Print writes the end-of-run summary.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "\nCrawl summary (%s): %d papers, %d records, %d with email, %d placeholders\n",
		r.Site, r.Papers, r.Records, r.Emails, r.Placeholders)
	kinds := r.SkippedByKind()
	fmt.Fprintf(w, "  pages fetched: %d, skipped branches: %d (network %d, status %d, parse %d)\n",
		r.Pages, len(r.Skipped), kinds[KindNetwork], kinds[KindStatus], kinds[KindParse])
	if r.Interrupted {
		fmt.Fprintf(w, "  interrupted after %s; records written so far are kept\n", r.Elapsed.Round(time.Second))
	} else {
		fmt.Fprintf(w, "  completed in %s\n", r.Elapsed.Round(time.Second))
	}
}
