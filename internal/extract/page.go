// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// pdfSignature is the magic prefix of every PDF file.
var pdfSignature = []byte("%PDF")

// pdfMetaRe matches the citation PDF metadata tag name.
var pdfMetaRe = regexp.MustCompile(`(?i)citation_pdf_url`)

// IsPDF reports whether a response is a PDF, either by its declared
// Content-Type or by the magic signature at the start of the body. The body
// check wins over a mislabeled header.
func IsPDF(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return bytes.HasPrefix(body, pdfSignature)
}

// NormalizeURL resolves href against base and strips the fragment. It
// returns "" when href is empty or either URL cannot be parsed.
func NormalizeURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := b.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Page is a parsed HTML document together with the URL it was fetched from.
type Page struct {
	URL string
	Doc *goquery.Document
}

// ParseHTML decodes body according to contentType (or the document's own
// charset declaration) and parses it.
func ParseHTML(pageURL, contentType string, body []byte) (*Page, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return &Page{URL: pageURL, Doc: doc}, nil
}

// Resolve returns href as an absolute, fragment-free URL relative to the page.
func (p *Page) Resolve(href string) string {
	return NormalizeURL(p.URL, href)
}

// Title returns the text of the first h1, h2, or title element in document
// order, or "".
func (p *Page) Title() string {
	return CleanText(p.Doc.Find("h1, h2, title").First().Text())
}

// PDFURL returns the page's PDF link: the citation PDF metadata tag first,
// else the first anchor whose href contains ".pdf" or "download".
func (p *Page) PDFURL() string {
	var found string
	p.Doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if pdfMetaRe.MatchString(name) && content != "" {
			found = p.Resolve(content)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	p.Doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.ToLower(s.AttrOr("href", ""))
		if strings.Contains(href, ".pdf") || strings.Contains(href, "download") {
			found = p.Resolve(s.AttrOr("href", ""))
			return false
		}
		return true
	})
	return found
}

// skipText lists elements whose text is never visible.
var skipText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// VisibleText returns the document's text nodes, trimmed and joined by
// single spaces, skipping scripts, styles, and the head.
func (p *Page) VisibleText() string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipText[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range p.Doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
