// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/pdftext"
	"github.com/pdiddy/paperscout/pkg/types"
)

// Fetcher retrieves a URL. The crawl engine supplies a paced implementation.
type Fetcher interface {
	Get(ctx context.Context, url string) (*httputil.Response, error)
}

// Hooks carries per-site adjustments to the cascade.
type Hooks struct {
	// Authors supplies authors from the page DOM when the page has no
	// author metadata tags.
	Authors func(p *Page) []types.Author
	// PDFURL overrides PDF link discovery. An empty return falls back to
	// the generic discovery.
	PDFURL func(p *Page) string
	// SkipPDF disables the PDF stage while still reporting the PDF URL.
	SkipPDF bool
}

// Result is the outcome of running the cascade over one paper.
type Result struct {
	Authors []types.Author
	PDFURL  string
	// Placeholder is set when no author information was found and Authors
	// holds only the title record.
	Placeholder bool
}

// Cascade runs the ordered extraction strategies for one paper page.
type Cascade struct {
	fetch  Fetcher
	pdf    *pdftext.Extractor
	cfg    types.ExtractionConfig
	logger zerolog.Logger
}

// NewCascade returns a Cascade. A nil or empty pdf extractor disables the PDF
// stage for the whole run.
func NewCascade(fetch Fetcher, pdf *pdftext.Extractor, cfg types.ExtractionConfig, logger zerolog.Logger) *Cascade {
	if cfg.TextNameTokens <= 0 {
		cfg.TextNameTokens = types.DefaultTextNameTokens
	}
	if cfg.PDFNameTokens <= 0 {
		cfg.PDFNameTokens = types.DefaultPDFNameTokens
	}
	return &Cascade{fetch: fetch, pdf: pdf, cfg: cfg, logger: logger}
}

// authorSet accumulates authors while keeping emails unique per paper.
type authorSet struct {
	authors []types.Author
	seen    map[string]bool
}

func newAuthorSet() *authorSet {
	return &authorSet{seen: make(map[string]bool)}
}

// add appends a, dropping its email when that email is already present.
func (s *authorSet) add(a types.Author) {
	key := strings.ToLower(a.Email)
	if key != "" {
		if s.seen[key] {
			a.Email = ""
		} else {
			s.seen[key] = true
		}
	}
	if a.Name == "" && a.Email == "" && a.Affiliation == "" {
		return
	}
	s.authors = append(s.authors, a)
}

// addNew appends a only if its email is new.
func (s *authorSet) addNew(a types.Author) bool {
	key := strings.ToLower(a.Email)
	if key == "" || s.seen[key] {
		return false
	}
	s.add(a)
	return true
}

// mergePDF fills name-only authors with new emails in order, then appends
// whatever is left.
func (s *authorSet) mergePDF(found []types.Author) {
	next := 0
	for _, a := range found {
		key := strings.ToLower(a.Email)
		if s.seen[key] {
			continue
		}
		for next < len(s.authors) && s.authors[next].HasEmail() {
			next++
		}
		if next < len(s.authors) {
			s.authors[next].Email = a.Email
			s.seen[key] = true
			next++
			continue
		}
		s.add(a)
	}
}

func (s *authorSet) hasEmail() bool {
	for _, a := range s.authors {
		if a.HasEmail() {
			return true
		}
	}
	return false
}

// Extract runs the cascade over a parsed paper page. It never returns an
// empty author list: with nothing found it yields a placeholder carrying the
// page title.
func (c *Cascade) Extract(ctx context.Context, p *Page, hooks Hooks) Result {
	set := newAuthorSet()

	// Structured metadata, or the site's DOM authors when no tags exist.
	meta := MetadataAuthors(p)
	if len(meta) == 0 && hooks.Authors != nil {
		meta = hooks.Authors(p)
	}
	for _, a := range meta {
		set.add(a)
	}
	for _, a := range MailtoAuthors(p) {
		set.addNew(a)
	}

	// Free-text fallback.
	if len(set.authors) == 0 {
		for _, a := range ScanAuthors(p.VisibleText(), c.cfg.TextNameTokens) {
			set.add(a)
		}
	}

	pdfURL := ""
	if hooks.PDFURL != nil {
		pdfURL = hooks.PDFURL(p)
	}
	if pdfURL == "" {
		pdfURL = p.PDFURL()
	}

	if !set.hasEmail() && pdfURL != "" && !hooks.SkipPDF {
		set.mergePDF(c.pdfAuthors(ctx, pdfURL))
	}

	res := Result{Authors: set.authors, PDFURL: pdfURL}
	if len(res.Authors) == 0 {
		res.Authors = []types.Author{{Name: p.Title()}}
		res.Placeholder = true
	}
	return res
}

// ExtractPDF runs the PDF stage over bytes already fetched, for paper links
// that resolve straight to a PDF.
func (c *Cascade) ExtractPDF(pdfURL string, body []byte) Result {
	set := newAuthorSet()
	set.mergePDF(c.scanPDF(pdfURL, body))
	res := Result{Authors: set.authors, PDFURL: pdfURL}
	if len(res.Authors) == 0 {
		res.Authors = []types.Author{{}}
		res.Placeholder = true
	}
	return res
}

// pdfAuthors fetches pdfURL and scans its text. Any failure yields nil.
func (c *Cascade) pdfAuthors(ctx context.Context, pdfURL string) []types.Author {
	if !c.pdf.Available() || c.fetch == nil {
		return nil
	}
	resp, err := c.fetch.Get(ctx, pdfURL)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", pdfURL).Msg("pdf fetch failed")
		return nil
	}
	if err := resp.CheckStatus(); err != nil {
		c.logger.Warn().Err(err).Str("url", pdfURL).Msg("pdf fetch failed")
		return nil
	}
	if !IsPDF(resp.ContentType(), resp.Body) {
		c.logger.Debug().Str("url", pdfURL).Msg("pdf link did not return a pdf")
		return nil
	}
	return c.scanPDF(pdfURL, resp.Body)
}

func (c *Cascade) scanPDF(pdfURL string, body []byte) []types.Author {
	if !c.pdf.Available() {
		return nil
	}
	text, err := c.pdf.Text(body)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", pdfURL).Msg("pdf text extraction failed")
		return nil
	}
	return ScanAuthors(text, c.cfg.PDFNameTokens)
}
