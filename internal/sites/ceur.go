// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sites

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

// ceurStart is a var so tests can point it at a local server.
var ceurStart = "https://ceur-ws.org/"

var ceurVolumeRe = regexp.MustCompile(`Vol-(\d{4})`)

// CEUR crawls CEUR Workshop Proceedings: volumes newest first, then the
// paper PDFs listed on each volume page.
func CEUR() *crawl.Site {
	return &crawl.Site{
		Key:      "ceur",
		Name:     "CEUR-WS",
		StartURL: ceurStart,
		Levels: []crawl.Level{
			{Name: "index", Discover: ceurVolumes, ItemLimit: crawl.MaxGroups},
			{Name: "volume", Discover: ceurPapers, ItemLimit: crawl.MaxPapers},
		},
		Pacing: types.PacingConfig{DelayBase: time.Second, JitterFraction: 0.3},
		Output: "ceur_all_papers.csv",
	}
}

func ceurVolumes(p *extract.Page, _ types.Scope) []crawl.Target {
	type volume struct {
		num int
		t   crawl.Target
	}
	seen := make(map[string]bool)
	var vols []volume
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		m := ceurVolumeRe.FindStringSubmatch(text + href)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		title := text
		if title == "" || strings.Contains(title, "Vol-") {
			title = fmt.Sprintf("Volume %s", m[1])
		}
		n, _ := strconv.Atoi(m[1])
		vols = append(vols, volume{
			num: n,
			t:   target(p.Resolve(href), title, types.Scope{Conference: title, Track: "Vol-" + m[1]}),
		})
	})
	sort.SliceStable(vols, func(i, j int) bool { return vols[i].num > vols[j].num })

	out := make([]crawl.Target, len(vols))
	for i, v := range vols {
		out[i] = v.t
	}
	return out
}

// ceurPapers lists the PDF links of a volume page. The volume's year is the
// first year mentioned on the page.
func ceurPapers(p *extract.Page, _ types.Scope) []crawl.Target {
	year := yearRe.FindString(p.Doc.Text())
	var out []crawl.Target
	anchors(p.Doc.Selection, func(_ *goquery.Selection, href, text string) {
		if strings.HasSuffix(href, ".pdf") {
			out = append(out, target(p.Resolve(href), text, types.Scope{Year: year}))
		}
	})
	return out
}
