package types

import (
	"strconv"
	"time"
)

// HTTPConfig holds settings for the HTTP fetch capability.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the descriptive client identifier sent with every request
	// (e.g. "paperscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries caps status-triggered retries per request. Zero disables
	// retries; a negative value uses the default (3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// BackoffBase is the first retry delay; it doubles on each attempt.
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base" mapstructure:"backoff_base"`

	// RetryStatuses lists the response codes that trigger a retry.
	RetryStatuses []int `json:"retry_statuses" yaml:"retry_statuses" mapstructure:"retry_statuses"`

	// MaxBodyBytes bounds how much of a response body is read.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// RatePerSecond caps outgoing requests per second. Zero disables the cap.
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// PacingConfig controls the mandatory delay after each page fetch and after
// each paper. The delay is DelayBase plus a uniform jitter in
// [0, DelayBase*JitterFraction).
type PacingConfig struct {
	DelayBase      time.Duration `json:"delay_base" yaml:"delay_base" mapstructure:"delay_base"`
	JitterFraction float64       `json:"jitter_fraction" yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// TraversalLimits truncates candidate lists before they are visited.
// Zero means no limit.
type TraversalLimits struct {
	// MaxGroups caps top-level groups (conference blocks, proceedings groups, volumes).
	MaxGroups int `json:"max_groups" yaml:"max_groups" mapstructure:"max_groups"`

	// MaxItemsPerGroup caps items inside one group (venues per group or year).
	MaxItemsPerGroup int `json:"max_items_per_group" yaml:"max_items_per_group" mapstructure:"max_items_per_group"`

	// MaxPapersPerVenue caps paper candidates on one venue or volume page.
	MaxPapersPerVenue int `json:"max_papers_per_venue" yaml:"max_papers_per_venue" mapstructure:"max_papers_per_venue"`

	// MaxYears caps the number of years visited.
	MaxYears int `json:"max_years" yaml:"max_years" mapstructure:"max_years"`
}

// YearRange restricts traversal to years in [Start, End]. A zero bound is open.
type YearRange struct {
	Start int `json:"start_year" yaml:"start_year" mapstructure:"start_year"`
	End   int `json:"end_year" yaml:"end_year" mapstructure:"end_year"`
}

// Contains reports whether year falls inside the range. Years that are not
// four-digit numbers are always contained, since they cannot be judged.
func (r YearRange) Contains(year string) bool {
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return true
	}
	if r.Start > 0 && y < r.Start {
		return false
	}
	if r.End > 0 && y > r.End {
		return false
	}
	return true
}

// Years lists every year in the range in ascending order. It returns nil
// when either bound is open.
func (r YearRange) Years() []int {
	if r.Start <= 0 || r.End <= 0 || r.Start > r.End {
		return nil
	}
	years := make([]int, 0, r.End-r.Start+1)
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

// PDFEngineChoice selects which PDF text engine the extractor uses.
type PDFEngineChoice string

const (
	PDFEngineAuto      PDFEngineChoice = "auto"
	PDFEnginePdftotext PDFEngineChoice = "pdftotext"
	PDFEngineNative    PDFEngineChoice = "native"
	PDFEngineNone      PDFEngineChoice = "none"
)

// Name-window defaults. Free-text page scans and PDF scans use different
// windows; both are configurable.
const (
	DefaultTextNameTokens = 4
	DefaultPDFNameTokens  = 2
)

// ExtractionConfig holds the tunables of the extraction cascade.
type ExtractionConfig struct {
	// TextNameTokens is how many capitalized tokens before an email form the
	// name guess in free-text page scans (default 4).
	TextNameTokens int `json:"text_name_tokens" yaml:"text_name_tokens" mapstructure:"text_name_tokens"`

	// PDFNameTokens is the same window for PDF text scans (default 2).
	PDFNameTokens int `json:"pdf_name_tokens" yaml:"pdf_name_tokens" mapstructure:"pdf_name_tokens"`

	// PDFEngine selects the PDF text engine: auto, pdftotext, native, or none.
	PDFEngine PDFEngineChoice `json:"pdf_engine" yaml:"pdf_engine" mapstructure:"pdf_engine"`
}

// OutputConfig names the record destinations.
type OutputConfig struct {
	// CSVPath is the append-only output file.
	CSVPath string `json:"csv_path" yaml:"csv_path" mapstructure:"csv_path"`

	// DBPath optionally mirrors every appended batch into SQLite.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// CrawlConfig groups every setting of one crawl run. It is built once at
// command start and never mutated afterwards.
type CrawlConfig struct {
	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	Pacing     PacingConfig     `json:"pacing" yaml:"pacing" mapstructure:"pacing"`
	Limits     TraversalLimits  `json:"limits" yaml:"limits" mapstructure:"limits"`
	Years      YearRange        `json:"years" yaml:"years" mapstructure:"years"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
}

// DefaultCrawlConfig returns the defaults applied before config files,
// environment, and flags.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "paperscout/0.1",
			MaxRetries:    3,
			BackoffBase:   500 * time.Millisecond,
			RetryStatuses: []int{429, 500, 502, 503, 504},
			MaxBodyBytes:  32 << 20,
		},
		Pacing: PacingConfig{
			DelayBase:      1 * time.Second,
			JitterFraction: 0.3,
		},
		Extraction: ExtractionConfig{
			TextNameTokens: DefaultTextNameTokens,
			PDFNameTokens:  DefaultPDFNameTokens,
			PDFEngine:      PDFEngineAuto,
		},
	}
}
