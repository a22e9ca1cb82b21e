// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sites

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// aclBase is a var so tests can point it at a local server.
var aclBase = "https://aclanthology.org"

// aclLetterCodes maps old-style anthology volume letters to venues.
var aclLetterCodes = map[string]string{
	"P": "ACL",
	"N": "NAACL",
	"E": "EACL",
	"D": "EMNLP",
	"C": "COLING",
	"W": "Workshop",
}

var (
	aclPaperIDRe  = regexp.MustCompile(`\.\d+/?$`)
	aclOldStyleRe = regexp.MustCompile(`/([A-Z])(\d{2})-?(\w*)/?$`)
	aclEventRe    = regexp.MustCompile(`/events/([^-/]+)-(\d+)/?$`)
	aclOldPaperRe = regexp.MustCompile(`/[A-Z]\d{2}-\d+/?$`)
	aclWorkshopRe = regexp.MustCompile(`/W\d{2}-\d+/?$`)
)

// ACL crawls the ACL Anthology for a year range: the volumes and events
// indexes yield venues, venues yield paper pages.
func ACL() *crawl.Site {
	return &crawl.Site{
		Key:           "acl",
		Name:          "ACL Anthology",
		StartURL:      aclBase + "/volumes/",
		Seeds:         aclSeeds,
		RequiresYears: true,
		Levels: []crawl.Level{
			{Name: "index", Discover: aclVenues, GroupLimit: crawl.MaxYears, ItemLimit: crawl.MaxItemsPerGroup},
			{Name: "venue", Discover: aclPapers, ItemLimit: crawl.MaxPapers},
		},
		Hooks:  extract.Hooks{Authors: aclAuthors},
		Pacing: types.PacingConfig{DelayBase: 300 * time.Millisecond, JitterFraction: 0.3},
		Output: "acl_all_papers.csv",
	}
}

func aclSeeds(_ types.YearRange) []crawl.Target {
	return []crawl.Target{
		target(aclBase+"/volumes/", "volumes", types.Scope{}),
		target(aclBase+"/events/", "events", types.Scope{}),
	}
}

// aclVenues finds venue links on a volumes or events index. A venue link
// carries a year and is not a single paper.
func aclVenues(p *extract.Page, _ types.Scope) []crawl.Target {
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		if aclPaperIDRe.MatchString(href) {
			return
		}
		switch {
		case strings.Contains(href, "/volumes/") && strings.HasSuffix(href, "/"):
		case strings.Contains(href, "/events/"):
		default:
			return
		}
		year := hrefYearRe.FindString(href)
		if year == "" {
			return
		}
		y, _ := strconv.Atoi(year)
		full := p.Resolve(href)
		conf, track, ok := parseACLVenue(full, y)
		if !ok {
			return
		}
		t := target(full, text, types.Scope{Year: year, Conference: conf, Track: track})
		t.Group = year
		out = append(out, t)
	})
	return out
}

// parseACLVenue derives the conference and track from a venue URL. It
// recognizes, in order: "2023.acl-main", "2023.name", old-style letter codes
// such as "P23" or "W00-13", and "/events/acl-2023".
func parseACLVenue(venueURL string, year int) (conference, track string, ok bool) {
	clean := strings.TrimRight(venueURL, "/")
	y := regexp.QuoteMeta(strconv.Itoa(year))

	if m := regexp.MustCompile(y + `\.([^-/]+)-(.+?)/?$`).FindStringSubmatch(clean); m != nil {
		return strings.ToUpper(m[1]), types.TitleCase(m[2]), true
	}
	if m := regexp.MustCompile(y + `\.([^/]+)/?$`).FindStringSubmatch(clean); m != nil {
		name, rest, found := strings.Cut(m[1], "-")
		if found {
			return strings.ToUpper(name), types.TitleCase(rest), true
		}
		return strings.ToUpper(name), "Main", true
	}
	if m := aclOldStyleRe.FindStringSubmatch(clean); m != nil {
		conf, known := aclLetterCodes[m[1]]
		if !known {
			conf = fmt.Sprintf("Conference-%s", m[1])
		}
		track = "Main"
		if m[3] != "" {
			track = types.TitleCase(m[3])
		}
		return conf, track, true
	}
	if m := aclEventRe.FindStringSubmatch(clean); m != nil {
		return strings.ToUpper(m[1]), "Event", true
	}
	return "", "", false
}

// aclPapers finds individual paper pages on a venue page.
func aclPapers(p *extract.Page, scope types.Scope) []crawl.Target {
	var modern *regexp.Regexp
	if scope.Year != "" {
		modern = regexp.MustCompile(`/` + regexp.QuoteMeta(scope.Year) + `\.[^/]+\.\d+/?$`)
	}
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		if (modern != nil && modern.MatchString(href)) || aclOldPaperRe.MatchString(href) || aclWorkshopRe.MatchString(href) {
			out = append(out, target(p.Resolve(href), text, types.Scope{}))
		}
	})
	return out
}

// aclAuthors reads the author names linked to /people/ pages.
func aclAuthors(p *extract.Page) []types.Author {
	var authors []types.Author
	p.Doc.Find(`a[href*="/people/"]`).Each(func(_ int, a *goquery.Selection) {
		if name := extract.CleanText(a.Text()); name != "" {
			authors = append(authors, types.Author{Name: name})
		}
	})
	return authors
}
