// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sites holds the crawl descriptors for each supported paper index.
// Every descriptor is a set of pure discovery functions over parsed pages;
// the traversal itself lives in the crawl engine.
package sites

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// yearRe matches a plausible publication year.
var yearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// All returns every registered site in display order.
func All() []*crawl.Site {
	return []*crawl.Site{AAAI(), ACL(), ACM(), CEUR(), SWJ()}
}

// Keys lists the registry names.
func Keys() []string {
	var keys []string
	for _, s := range All() {
		keys = append(keys, s.Key)
	}
	return keys
}

// Lookup returns the site registered under key, case-insensitively.
func Lookup(key string) (*crawl.Site, error) {
	for _, s := range All() {
		if strings.EqualFold(s.Key, key) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown site %q (known: %s)", key, strings.Join(Keys(), ", "))
}

func target(url, label string, scope types.Scope) crawl.Target {
	return crawl.Target{
		CandidateLink: types.CandidateLink{URL: url, Label: label},
		Scope:         scope,
	}
}

// anchors calls fn for every anchor with a non-empty href, passing the raw
// href and the cleaned anchor text.
func anchors(sel *goquery.Selection, fn func(a *goquery.Selection, href, text string)) {
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		fn(a, href, extract.CleanText(a.Text()))
	})
}

// sortByYearDesc orders targets newest first, keeping discovery order among
// equal years.
func sortByYearDesc(ts []crawl.Target) {
	sort.SliceStable(ts, func(i, j int) bool {
		yi, _ := strconv.Atoi(ts[i].Scope.Year)
		yj, _ := strconv.Atoi(ts[j].Scope.Year)
		return yi > yj
	})
}
