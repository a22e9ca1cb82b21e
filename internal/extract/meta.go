// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Metadata tag names, matched case-insensitively as suffixes of the
// meta name attribute.
var (
	authorMetaRe      = regexp.MustCompile(`(?i)citation_author$`)
	authorEmailMetaRe = regexp.MustCompile(`(?i)citation_author_email$`)
	authorInstMetaRe  = regexp.MustCompile(`(?i)citation_author_institution$`)
)

// metaValues returns the trimmed, non-empty content of every meta tag whose
// name matches re, in document order.
func metaValues(doc *goquery.Document, re *regexp.Regexp) []string {
	var vals []string
	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		if !re.MatchString(s.AttrOr("name", "")) {
			return
		}
		if c := strings.TrimSpace(s.AttrOr("content", "")); c != "" {
			vals = append(vals, c)
		}
	})
	return vals
}

// MetadataAuthors pairs the author, author-email, and author-institution
// meta tags by position. It yields one author per name tag; a missing or
// malformed email and a missing institution default to "".
func MetadataAuthors(p *Page) []types.Author {
	names := metaValues(p.Doc, authorMetaRe)
	emails := metaValues(p.Doc, authorEmailMetaRe)
	affs := metaValues(p.Doc, authorInstMetaRe)

	authors := make([]types.Author, 0, len(names))
	for i, n := range names {
		a := types.Author{Name: n}
		if i < len(emails) && strings.Contains(emails[i], "@") {
			a.Email = strings.ToLower(strings.TrimSpace(emails[i]))
		}
		if i < len(affs) {
			a.Affiliation = affs[i]
		}
		authors = append(authors, a)
	}
	return authors
}

// MailtoAuthors returns one author per mailto anchor: the address up to any
// query string, and the anchor's visible text as the name.
func MailtoAuthors(p *Page) []types.Author {
	var authors []types.Author
	p.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
			return
		}
		addr, _, _ := strings.Cut(href[len("mailto:"):], "?")
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || !strings.Contains(addr, "@") {
			return
		}
		authors = append(authors, types.Author{
			Email: addr,
			Name:  CleanText(s.Text()),
		})
	})
	return authors
}
