// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// Dedup drops targets whose normalized URL was already seen, keeping the
// first occurrence. Targets with an unusable URL are dropped.
func Dedup(targets []Target) []Target {
	seen := make(map[string]bool, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		key := extract.NormalizeURL(t.URL, t.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		t.URL = key
		out = append(out, t)
	}
	return out
}

// FilterYears drops targets whose scope year, merged onto parent, is a known
// year outside the range.
func FilterYears(targets []Target, parent types.Scope, years types.YearRange) []Target {
	out := targets[:0:0]
	for _, t := range targets {
		if years.Contains(parent.Merge(t.Scope).Year) {
			out = append(out, t)
		}
	}
	return out
}

// Truncate returns at most n targets. n <= 0 means no cap.
func Truncate(targets []Target, n int) []Target {
	if n <= 0 || len(targets) <= n {
		return targets
	}
	return targets[:n]
}

// LimitGroups keeps targets from the first maxGroups groups, in first-seen
// order, and at most maxItems targets per group. Ungrouped targets are only
// capped by maxItems. Zero caps mean no cap.
func LimitGroups(targets []Target, maxGroups, maxItems int) []Target {
	grouped := false
	for _, t := range targets {
		if t.Group != "" {
			grouped = true
			break
		}
	}
	if !grouped {
		return Truncate(targets, maxItems)
	}

	order := make(map[string]int)
	counts := make(map[string]int)
	var out []Target
	for _, t := range targets {
		idx, ok := order[t.Group]
		if !ok {
			idx = len(order)
			order[t.Group] = idx
		}
		if maxGroups > 0 && idx >= maxGroups {
			continue
		}
		if maxItems > 0 && counts[t.Group] >= maxItems {
			continue
		}
		counts[t.Group]++
		out = append(out, t)
	}
	return out
}

// candidates applies dedup, the year filter, and the level's caps, in that
// order, so that caps bound the pages visited.
func candidates(lvl Level, targets []Target, parent types.Scope, cfg types.CrawlConfig) []Target {
	targets = Dedup(targets)
	targets = FilterYears(targets, parent, cfg.Years)
	groups, items := 0, 0
	if lvl.GroupLimit != nil {
		groups = lvl.GroupLimit(cfg.Limits)
	}
	if lvl.ItemLimit != nil {
		items = lvl.ItemLimit(cfg.Limits)
	}
	return LimitGroups(targets, groups, items)
}
