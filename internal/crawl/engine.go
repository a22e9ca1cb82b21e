// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/pdftext"
	"github.com/pdiddy/paperscout/pkg/types"
)

// Sink receives one paper's records as a single batch.
type Sink interface {
	Append(records []types.AuthorRecord) error
}

// Engine walks one site at a time, strictly sequentially.
type Engine struct {
	fetch   extract.Fetcher
	cascade *extract.Cascade
	sink    Sink
	cfg     types.CrawlConfig
	pacer   *Pacer
	logger  zerolog.Logger
}

// NewEngine returns an Engine. Every fetch it issues, including PDF fetches
// made by the cascade, is followed by the pacing delay from cfg.Pacing.
func NewEngine(fetch extract.Fetcher, pdf *pdftext.Extractor, sink Sink, cfg types.CrawlConfig, logger zerolog.Logger) *Engine {
	e := &Engine{
		fetch:  fetch,
		sink:   sink,
		cfg:    cfg,
		pacer:  NewPacer(cfg.Pacing),
		logger: logger,
	}
	e.cascade = extract.NewCascade(pacedFetcher{e}, pdf, cfg.Extraction, logger)
	return e
}

// pacedFetcher routes cascade fetches through the engine's pacing.
type pacedFetcher struct{ e *Engine }

func (p pacedFetcher) Get(ctx context.Context, url string) (*httputil.Response, error) {
	return p.e.get(ctx, url)
}

// get fetches url and then waits out the pacing delay.
func (e *Engine) get(ctx context.Context, url string) (*httputil.Response, error) {
	resp, err := e.fetch.Get(ctx, url)
	if werr := e.pacer.Wait(ctx); werr != nil && err == nil {
		err = werr
	}
	return resp, err
}

// Run crawls site until every branch is visited or ctx is cancelled.
// Cancellation is observed between steps; records already appended stay
// in the sink and the result is marked interrupted. A paper whose
// extraction was interrupted is not written. The returned error is
// non-nil only when the sink fails.
func (e *Engine) Run(ctx context.Context, site *Site) (*Result, error) {
	start := time.Now()
	res := &Result{Site: site.Name}
	log := e.logger.With().Str("site", site.Name).Logger()

	err := e.walk(ctx, log, site, 0, site.seeds(e.cfg.Years), types.Scope{}, res)
	res.Elapsed = time.Since(start)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		res.Interrupted = true
		log.Warn().Int("papers", res.Papers).Msg("crawl interrupted")
		return res, nil
	}
	return res, err
}

func (e *Engine) walk(ctx context.Context, log zerolog.Logger, site *Site, depth int, targets []Target, parent types.Scope, res *Result) error {
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		scope := parent.Merge(t.Scope)

		if depth == len(site.Levels) {
			if err := e.visitPaper(ctx, log, site, t, scope, res); err != nil {
				return err
			}
			continue
		}

		lvl := site.Levels[depth]
		page, err := e.fetchPage(ctx, lvl.Name, t.URL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.skip(log, res, err)
			continue
		}
		res.Pages++

		children := candidates(lvl, lvl.Discover(page, scope), scope, e.cfg)
		log.Info().Str("level", lvl.Name).Str("url", t.URL).Int("candidates", len(children)).Msg("listing")
		if err := e.walk(ctx, log, site, depth+1, children, scope, res); err != nil {
			return err
		}
	}
	return nil
}

// fetchPage fetches and parses a listing page, tagging failures.
func (e *Engine) fetchPage(ctx context.Context, level, url string) (*extract.Page, error) {
	resp, err := e.get(ctx, url)
	if err != nil {
		return nil, &StepError{Kind: KindNetwork, Level: level, URL: url, Err: err}
	}
	if err := resp.CheckStatus(); err != nil {
		return nil, &StepError{Kind: KindStatus, Level: level, URL: url, Err: err}
	}
	if extract.IsPDF(resp.ContentType(), resp.Body) {
		return nil, &StepError{Kind: KindParse, Level: level, URL: url, Err: errors.New("listing page is a PDF")}
	}
	page, err := extract.ParseHTML(resp.URL, resp.ContentType(), resp.Body)
	if err != nil {
		return nil, &StepError{Kind: KindParse, Level: level, URL: url, Err: err}
	}
	return page, nil
}

// visitPaper extracts one paper and appends its records as one batch.
func (e *Engine) visitPaper(ctx context.Context, log zerolog.Logger, site *Site, t Target, scope types.Scope, res *Result) error {
	resp, err := e.get(ctx, t.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.skip(log, res, &StepError{Kind: KindNetwork, Level: "paper", URL: t.URL, Err: err})
		return nil
	}
	if err := resp.CheckStatus(); err != nil {
		e.skip(log, res, &StepError{Kind: KindStatus, Level: "paper", URL: t.URL, Err: err})
		return nil
	}
	res.Pages++

	var out extract.Result
	if extract.IsPDF(resp.ContentType(), resp.Body) {
		out = e.cascade.ExtractPDF(t.URL, resp.Body)
	} else if page, perr := extract.ParseHTML(resp.URL, resp.ContentType(), resp.Body); perr != nil {
		e.skip(log, res, &StepError{Kind: KindParse, Level: "paper", URL: t.URL, Err: perr})
		out = extract.Result{Authors: []types.Author{{}}, Placeholder: true}
	} else {
		if site.PaperScope != nil {
			scope = site.PaperScope(page, scope)
		}
		out = e.cascade.Extract(ctx, page, site.Hooks)
	}
	// An interrupted cascade is incomplete; the paper is not written.
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]types.AuthorRecord, 0, len(out.Authors))
	for _, a := range out.Authors {
		records = append(records, types.NewRecord(site.Name, scope, t.URL, out.PDFURL, a))
	}
	if err := e.sink.Append(records); err != nil {
		return fmt.Errorf("appending records for %s: %w", t.URL, err)
	}

	res.Papers++
	res.Records += len(records)
	for _, a := range out.Authors {
		if a.HasEmail() {
			res.Emails++
		}
	}
	if out.Placeholder {
		res.Placeholders++
	}
	log.Info().Str("level", "paper").Str("url", t.URL).Int("records", len(records)).
		Bool("placeholder", out.Placeholder).Msg("paper")

	return e.pacer.Wait(ctx)
}

func (e *Engine) skip(log zerolog.Logger, res *Result, err error) {
	var se *StepError
	if !errors.As(err, &se) {
		se = &StepError{Kind: KindNetwork, Err: err}
	}
	res.Skipped = append(res.Skipped, se)
	log.Warn().Err(se.Err).Str("kind", string(se.Kind)).Str("level", se.Level).Str("url", se.URL).Msg("skipping branch")
}
