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

// swjStart is a var so tests can point it at a local server.
var swjStart = "https://www.semantic-web-journal.net/issues"

const swjName = "Semantic Web Journal"

var (
	swjIssuesRe      = regexp.MustCompile(`Issues in (\d{4})`)
	swjAuthorSplitRe = regexp.MustCompile(`[,;]|\band\b`)
)

// SWJ crawls the Semantic Web Journal issue index by year.
func SWJ() *crawl.Site {
	return &crawl.Site{
		Key:      "swj",
		Name:     swjName,
		StartURL: swjStart,
		Levels: []crawl.Level{
			{Name: "issues", Discover: swjYears, ItemLimit: crawl.MaxYears},
			{Name: "year", Discover: swjPapers, ItemLimit: crawl.MaxPapers},
		},
		Hooks:  extract.Hooks{Authors: swjAuthors},
		Pacing: types.PacingConfig{DelayBase: time.Second, JitterFraction: 0.3},
		Output: "swj_all_papers.csv",
	}
}

func swjYears(p *extract.Page, _ types.Scope) []crawl.Target {
	seen := make(map[string]bool)
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		m := swjIssuesRe.FindStringSubmatch(text)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		out = append(out, target(p.Resolve(href), text, types.Scope{
			Year:       m[1],
			Conference: swjName,
			Track:      "Volume " + m[1],
		}))
	})
	sortByYearDesc(out)
	return out
}

func swjPapers(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		if strings.Contains(href, "/content/") && !strings.HasSuffix(href, ".pdf") {
			out = append(out, target(p.Resolve(href), text, types.Scope{}))
		}
	})
	return out
}

// swjAuthors reads the author field, split on commas, semicolons, and "and",
// or else one name per author div.
func swjAuthors(p *extract.Page) []types.Author {
	var authors []types.Author
	if field := p.Doc.Find("div.field-name-field-authors").First(); field.Length() > 0 {
		for _, part := range swjAuthorSplitRe.Split(field.Text(), -1) {
			name := extract.CleanText(part)
			if len(name) > 2 {
				authors = append(authors, types.Author{Name: name})
			}
		}
		return authors
	}
	p.Doc.Find("div.author").Each(func(_ int, d *goquery.Selection) {
		if name := extract.CleanText(d.Text()); name != "" {
			authors = append(authors, types.Author{Name: name})
		}
	})
	return authors
}
