// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl drives a site's index → group → venue → paper traversal,
// runs the extraction cascade on every paper, and hands each paper's records
// to a sink as one batch.
package crawl

import (
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// Target is a link discovered on a listing page, with the scope fields it
// contributes and an optional group key used by group limits.
type Target struct {
	types.CandidateLink
	Scope types.Scope
	Group string
}

// LimitFunc selects one cap from the traversal limits. Zero means no cap.
type LimitFunc func(types.TraversalLimits) int

// Limit selectors.
func MaxGroups(l types.TraversalLimits) int        { return l.MaxGroups }
func MaxItemsPerGroup(l types.TraversalLimits) int { return l.MaxItemsPerGroup }
func MaxPapers(l types.TraversalLimits) int        { return l.MaxPapersPerVenue }
func MaxYears(l types.TraversalLimits) int         { return l.MaxYears }

// Level is one listing state of a site. Discover runs on every page fetched
// at this level and returns the links to follow into the next level, or the
// paper links when this is the last level.
type Level struct {
	Name     string
	Discover func(p *extract.Page, scope types.Scope) []Target
	// GroupLimit caps the number of distinct groups among grouped targets.
	GroupLimit LimitFunc
	// ItemLimit caps targets per group, or overall when targets are ungrouped.
	ItemLimit LimitFunc
}

// Site describes one crawlable index as a set of pure discovery functions.
type Site struct {
	// Key is the registry name used on the command line.
	Key string
	// Name is written to the site column.
	Name string
	// StartURL is the first listing page when Seeds is nil.
	StartURL string
	// Seeds, when set, produces the first-level targets from the year range.
	Seeds func(years types.YearRange) []Target
	// RequiresYears marks sites that cannot start without a year range.
	RequiresYears bool
	Levels        []Level
	// PaperScope refines the scope from the paper page itself.
	PaperScope func(p *extract.Page, scope types.Scope) types.Scope
	Hooks      extract.Hooks
	Pacing     types.PacingConfig
	// Output is the default CSV file name.
	Output string
}

// seeds returns the targets fed to the first level.
func (s *Site) seeds(years types.YearRange) []Target {
	if s.Seeds != nil {
		return s.Seeds(years)
	}
	return []Target{{CandidateLink: types.CandidateLink{URL: s.StartURL, Label: s.Name}}}
}
