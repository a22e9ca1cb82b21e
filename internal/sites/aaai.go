// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sites

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// aaaiStart is a var so tests can point it at a local server.
var aaaiStart = "https://www.aaai.org/Library/conferences-library.php"

var (
	aaaiPaperKeywords = []string{"/paper", "/papers/", "/article", "/article/view", ".pdf"}
	aaaiDottedYearRe  = regexp.MustCompile(`/\d{4}\.`)
	aaaiTextYearRe    = regexp.MustCompile(`20\d{2}`)
	aaaiSkipSuffixes  = []string{".jpg", ".png"}

	// hrefYearRe also matches years glued to other characters, as in
	// "aaai2023.php".
	hrefYearRe = regexp.MustCompile(`(19\d{2}|20\d{2})`)
)

// AAAI crawls the AAAI conference library: conference blocks, their year
// pages, then the paper pages linked from each year.
func AAAI() *crawl.Site {
	return &crawl.Site{
		Key:      "aaai",
		Name:     "AAAI",
		StartURL: aaaiStart,
		Levels: []crawl.Level{
			{Name: "library", Discover: aaaiYears, GroupLimit: crawl.MaxGroups, ItemLimit: crawl.MaxYears},
			{Name: "year", Discover: aaaiPapers, ItemLimit: crawl.MaxPapers},
		},
		Pacing: types.PacingConfig{DelayBase: 800 * time.Millisecond, JitterFraction: 0.3},
		Output: "aaai_all_papers_authors.csv",
	}
}

// aaaiBlocks returns the conference blocks, falling back to any div or
// section holding both a heading and a link.
func aaaiBlocks(doc *goquery.Document) *goquery.Selection {
	blocks := doc.Find(".libraryconf")
	if blocks.Length() > 0 {
		return blocks
	}
	return doc.Find("div, section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("h2").Length() > 0 && s.Find("a").Length() > 0
	})
}

func aaaiYears(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	aaaiBlocks(p.Doc).Each(func(_ int, block *goquery.Selection) {
		conf := extract.CleanText(block.Find("h2").First().Text())
		if conf == "" {
			conf = "Unknown Conference"
		}

		seen := make(map[string]bool)
		var years []crawl.Target
		add := func(year, href string) {
			if seen[year] {
				return
			}
			seen[year] = true
			t := target(p.Resolve(href), year, types.Scope{Year: year, Conference: conf})
			t.Group = conf
			years = append(years, t)
		}

		anchors(block, func(_ *goquery.Selection, href, text string) {
			if found := yearRe.FindAllString(text, -1); len(found) > 0 {
				for _, y := range found {
					add(y, href)
				}
				return
			}
			if m := hrefYearRe.FindString(href); m != "" {
				add(m, href)
			}
		})
		sortByYearDesc(years)
		out = append(out, years...)
	})
	return out
}

func aaaiPapers(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "#") || strings.HasPrefix(lower, "mailto:") {
			return
		}
		for _, suf := range aaaiSkipSuffixes {
			if strings.HasSuffix(lower, suf) {
				return
			}
		}
		if containsAny(lower, aaaiPaperKeywords) || aaaiDottedYearRe.MatchString(lower) || aaaiTextYearRe.MatchString(text) {
			out = append(out, target(p.Resolve(href), text, types.Scope{}))
		}
	})
	if len(out) > 0 {
		return out
	}

	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		if strings.Contains(strings.ToLower(href), ".pdf") {
			out = append(out, target(p.Resolve(href), text, types.Scope{}))
		}
	})
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
