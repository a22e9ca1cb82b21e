// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/internal/secrets"
	"github.com/pdiddy/paperscout/internal/sink"
	"github.com/pdiddy/paperscout/internal/sites"
	"github.com/pdiddy/paperscout/pkg/types"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	bindEnv()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addCrawlFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func mustSite(t *testing.T, key string) *crawl.Site {
	t.Helper()
	s, err := sites.Lookup(key)
	require.NoError(t, err)
	return s
}

func TestResolveConfigSiteDefaults(t *testing.T) {
	site := mustSite(t, "aaai")
	cfg, err := resolveConfig(newFlags(t), site)
	require.NoError(t, err)

	assert.Equal(t, site.Pacing, cfg.Pacing)
	assert.Equal(t, site.Output, cfg.Output.CSVPath)
	assert.Equal(t, types.DefaultTextNameTokens, cfg.Extraction.TextNameTokens)
	assert.Equal(t, types.DefaultPDFNameTokens, cfg.Extraction.PDFNameTokens)
	assert.Equal(t, types.PDFEngineAuto, cfg.Extraction.PDFEngine)
}

func TestResolveConfigFlagsOverride(t *testing.T) {
	fs := newFlags(t,
		"--max-papers", "3", "--delay", "2s", "--jitter", "0",
		"--pdf-engine", "NATIVE", "--output", "out.csv", "--db", "out.db",
	)
	cfg, err := resolveConfig(fs, mustSite(t, "ceur"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Limits.MaxPapersPerVenue)
	assert.Equal(t, 2*time.Second, cfg.Pacing.DelayBase)
	assert.Zero(t, cfg.Pacing.JitterFraction)
	assert.Equal(t, types.PDFEngineNative, cfg.Extraction.PDFEngine)
	assert.Equal(t, types.OutputConfig{CSVPath: "out.csv", DBPath: "out.db"}, cfg.Output)
}

func TestResolveConfigEnvironment(t *testing.T) {
	t.Setenv("PAPERSCOUT_LIMITS_MAX_YEARS", "2")
	t.Setenv("PAPERSCOUT_PACING_DELAY_BASE", "5s")
	fs := newFlags(t, "--delay", "1s")

	cfg, err := resolveConfig(fs, mustSite(t, "swj"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Limits.MaxYears)
	assert.Equal(t, time.Second, cfg.Pacing.DelayBase, "flags win over the environment")
}

func TestResolveConfigYears(t *testing.T) {
	acl := mustSite(t, "acl")

	_, err := resolveConfig(newFlags(t), acl)
	assert.ErrorContains(t, err, "needs a year range")

	_, err = resolveConfig(newFlags(t, "--start-year", "2023", "--end-year", "2021"), acl)
	assert.ErrorContains(t, err, "after end year")

	cfg, err := resolveConfig(newFlags(t, "--start-year", "2021", "--end-year", "2023"), acl)
	require.NoError(t, err)
	assert.Equal(t, types.YearRange{Start: 2021, End: 2023}, cfg.Years)
}

func TestResolveConfigContactEmail(t *testing.T) {
	prev := loadedSecrets
	loadedSecrets = map[string]string{secrets.KeyContactEmail: "ops@example.org"}
	t.Cleanup(func() { loadedSecrets = prev })

	cfg, err := resolveConfig(newFlags(t), mustSite(t, "ceur"))
	require.NoError(t, err)
	assert.Equal(t, "paperscout/0.1 (+mailto:ops@example.org)", cfg.HTTP.UserAgent)
}

func TestCrawlSiteWritesCSVAndMirror(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			fmt.Fprintf(w, `<a href="%s/paper/1">Paper one</a>`, srv.URL)
		case "/paper/1":
			fmt.Fprint(w, `<html><head>
<meta name="citation_author" content="Ada Lovelace">
<meta name="citation_author_email" content="ADA@example.org">
</head><body><h1>Notes</h1></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	site := &crawl.Site{
		Key:      "test",
		Name:     "Test",
		StartURL: srv.URL + "/",
		Levels: []crawl.Level{{
			Name: "index",
			Discover: func(p *extract.Page, scope types.Scope) []crawl.Target {
				var out []crawl.Target
				p.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
					href, _ := a.Attr("href")
					out = append(out, crawl.Target{
						CandidateLink: types.CandidateLink{URL: p.Resolve(href), Label: a.Text()},
						Scope:         types.Scope{Year: "2024", Conference: "Test"},
					})
				})
				return out
			},
		}},
	}

	dir := t.TempDir()
	cfg := types.DefaultCrawlConfig()
	cfg.Pacing = types.PacingConfig{}
	cfg.Extraction.PDFEngine = types.PDFEngineNone
	cfg.Output = types.OutputConfig{
		CSVPath: filepath.Join(dir, "out.csv"),
		DBPath:  filepath.Join(dir, "out.db"),
	}

	result, err := crawlSite(context.Background(), site, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Papers)
	assert.Equal(t, 1, result.Emails)

	records, err := sink.ReadCSV(cfg.Output.CSVPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ada@example.org", records[0].Email)
	assert.Equal(t, "Ada Lovelace", records[0].Name)

	store, err := sink.OpenStore(cfg.Output.DBPath)
	require.NoError(t, err)
	defer store.Close()
	mirrored, err := store.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, mirrored)
}

func TestSummaryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	csv, err := sink.OpenCSV(path)
	require.NoError(t, err)
	require.NoError(t, csv.Append([]types.AuthorRecord{
		{Site: "CEUR", Year: "2023", Conference: "Workshop A", Track: "Vol-3400", PaperURL: "https://x.org/1.pdf", Email: "a.b@x.org"},
	}))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"summary", path})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Records: 1 (1 with email) across 1 papers")
	assert.Contains(t, out.String(), "Workshop A (Vol-3400): 2023")
}

func TestPrintSites(t *testing.T) {
	var out bytes.Buffer
	printSites(&out)
	for _, key := range sites.Keys() {
		assert.Contains(t, out.String(), key)
	}
	assert.Contains(t, out.String(), "needs --start-year/--end-year")
}
