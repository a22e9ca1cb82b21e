// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sites

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// acmStart is a var so tests can point it at a local server.
var acmStart = "https://dl.acm.org/proceedings"

// ACM crawls the ACM Digital Library proceedings index. Groups are
// accordion sections of the index; each holds conference links. ACM PDFs
// need a browser session, so only the PDF link is recorded.
func ACM() *crawl.Site {
	return &crawl.Site{
		Key:      "acm",
		Name:     "ACM Digital Library",
		StartURL: acmStart,
		Levels: []crawl.Level{
			{Name: "proceedings", Discover: acmConferences, GroupLimit: crawl.MaxGroups, ItemLimit: crawl.MaxItemsPerGroup},
			{Name: "conference", Discover: acmPapers, ItemLimit: crawl.MaxPapers},
		},
		PaperScope: acmPaperScope,
		Hooks: extract.Hooks{
			Authors: acmAuthors,
			PDFURL:  acmPDFURL,
			SkipPDF: true,
		},
		Pacing: types.PacingConfig{DelayBase: 3 * time.Second, JitterFraction: 0.5},
		Output: "acm_all_papers.csv",
	}
}

// acmGroupTitle keeps the first line of a group header, up to any "(".
func acmGroupTitle(header *goquery.Selection) string {
	text := strings.TrimSpace(header.Text())
	line, _, _ := strings.Cut(text, "\n")
	title, _, _ := strings.Cut(line, "(")
	return strings.TrimSpace(title)
}

func acmConferences(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	p.Doc.Find(`div[class*="proc-group-header-"]`).Each(func(_ int, header *goquery.Selection) {
		group := acmGroupTitle(header)
		body := header.NextAllFiltered("div").First()
		anchors(body, func(_ *goquery.Selection, href, text string) {
			if !strings.Contains(href, "/proceedings/") {
				return
			}
			t := target(p.Resolve(href), text, types.Scope{Conference: text})
			t.Group = group
			out = append(out, t)
		})
	})
	return out
}

func acmPapers(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	p.Doc.Find("a.issue-item-title[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if strings.Contains(href, "/doi/") {
			out = append(out, target(p.Resolve(href), extract.CleanText(a.Text()), types.Scope{}))
		}
	})
	return out
}

// acmPaperScope takes the year from the citation date and uses the paper
// title as the track.
func acmPaperScope(p *extract.Page, scope types.Scope) types.Scope {
	if title := extract.CleanText(p.Doc.Find("h1.citation__title").First().Text()); title != "" {
		scope.Track = title
	}
	if y := yearRe.FindString(p.Doc.Find("span.citation__date").First().Text()); y != "" {
		scope.Year = y
	}
	return scope
}

func acmAuthors(p *extract.Page) []types.Author {
	var authors []types.Author
	p.Doc.Find("li.author-list__item").Each(func(_ int, li *goquery.Selection) {
		name := extract.CleanText(li.Find("a.author-name").First().Text())
		if name == "" {
			return
		}
		authors = append(authors, types.Author{
			Name:        name,
			Affiliation: extract.CleanText(li.Find("div.author-affiliation").First().Text()),
		})
	})
	return authors
}

func acmPDFURL(p *extract.Page) string {
	var found string
	p.Doc.Find("a.issue-navigation__content-link[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(a.Text(), "PDF") {
			found = p.Resolve(a.AttrOr("href", ""))
			return false
		}
		return true
	})
	return found
}
