// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/internal/crawl"
	"github.com/pdiddy/paperscout/internal/extract"
	"github.com/pdiddy/paperscout/pkg/types"
)

func page(t *testing.T, url, body string) *extract.Page {
	t.Helper()
	p, err := extract.ParseHTML(url, "text/html; charset=utf-8", []byte(body))
	require.NoError(t, err)
	return p
}

type flat struct {
	URL   string
	Group string
	Scope types.Scope
}

func flatten(ts []crawl.Target) []flat {
	out := make([]flat, len(ts))
	for i, t := range ts {
		out[i] = flat{URL: t.URL, Group: t.Group, Scope: t.Scope}
	}
	return out
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"aaai", "acl", "acm", "ceur", "swj"}, Keys())

	s, err := Lookup("ACM")
	require.NoError(t, err)
	assert.Equal(t, "ACM Digital Library", s.Name)
	assert.True(t, s.Hooks.SkipPDF)

	_, err = Lookup("arxiv")
	assert.ErrorContains(t, err, "unknown site")

	for _, s := range All() {
		assert.NotEmpty(t, s.Levels, s.Key)
		assert.NotEmpty(t, s.Output, s.Key)
		assert.NotZero(t, s.Pacing.DelayBase, s.Key)
	}
}

func TestAAAIYears(t *testing.T) {
	p := page(t, "https://www.aaai.org/Library/conferences-library.php", `<body>
<div class="libraryconf"><h2>AAAI Conference</h2><p>About it.</p>
  <a href="/Library/AAAI/aaai22contents.php">2022</a>
  <a href="/Library/AAAI/aaai23contents.php">2023</a>
  <a href="/Library/AAAI/aaai2023.php">AAAI-23 again</a>
  <a href="/about">About</a>
</div>
<div class="libraryconf"><h2>ICWSM</h2><a href="/icwsm/2021">Proceedings 2021</a></div>
</body>`)
	got := flatten(aaaiYears(p, types.Scope{}))
	assert.Equal(t, []flat{
		{URL: "https://www.aaai.org/Library/AAAI/aaai23contents.php", Group: "AAAI Conference", Scope: types.Scope{Year: "2023", Conference: "AAAI Conference"}},
		{URL: "https://www.aaai.org/Library/AAAI/aaai22contents.php", Group: "AAAI Conference", Scope: types.Scope{Year: "2022", Conference: "AAAI Conference"}},
		{URL: "https://www.aaai.org/icwsm/2021", Group: "ICWSM", Scope: types.Scope{Year: "2021", Conference: "ICWSM"}},
	}, got)
}

func TestAAAIYearsFallbackBlocks(t *testing.T) {
	p := page(t, "https://www.aaai.org/lib", `<body>
<section><h2>IAAI</h2><a href="/iaai/2019/">2019</a></section></body>`)
	got := aaaiYears(p, types.Scope{})
	require.Len(t, got, 1)
	assert.Equal(t, "IAAI", got[0].Scope.Conference)
	assert.Equal(t, "2019", got[0].Scope.Year)
}

func TestAAAIPapers(t *testing.T) {
	p := page(t, "https://ojs.aaai.org/index.php/AAAI/issue/view/1", `<body>
<a href="#top">top</a>
<a href="mailto:x@y.org">mail</a>
<a href="/img/2023.png">img</a>
<a href="/index.php/AAAI/article/view/123">Paper A</a>
<a href="/papers/0042.pdf">B</a>
<a href="/misc">Proceedings 2023</a>
<a href="/about">About</a>
</body>`)
	var urls []string
	for _, tg := range aaaiPapers(p, types.Scope{}) {
		urls = append(urls, tg.URL)
	}
	assert.Equal(t, []string{
		"https://ojs.aaai.org/index.php/AAAI/article/view/123",
		"https://ojs.aaai.org/papers/0042.pdf",
		"https://ojs.aaai.org/misc",
	}, urls)
}

func TestParseACLVenue(t *testing.T) {
	tests := []struct {
		url   string
		year  int
		conf  string
		track string
		ok    bool
	}{
		{"https://aclanthology.org/volumes/2023.acl-main/", 2023, "ACL", "Main", true},
		{"https://aclanthology.org/volumes/2023.emnlp-industry/", 2023, "EMNLP", "Industry", true},
		{"https://aclanthology.org/volumes/2003.jeptalnrecital-tutorial/", 2003, "JEPTALNRECITAL", "Tutorial", true},
		{"https://aclanthology.org/volumes/2023.conll/", 2023, "CONLL", "Main", true},
		{"https://aclanthology.org/volumes/P23/", 2023, "ACL", "Main", true},
		{"https://aclanthology.org/volumes/W00-13/", 2000, "Workshop", "13", true},
		{"https://aclanthology.org/volumes/X99/", 1999, "Conference-X", "Main", true},
		{"https://aclanthology.org/events/acl-2023/", 2023, "ACL", "Event", true},
		{"https://aclanthology.org/people/", 2023, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			conf, track, ok := parseACLVenue(tt.url, tt.year)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.conf, conf)
			assert.Equal(t, tt.track, track)
		})
	}
}

func TestACLVenues(t *testing.T) {
	p := page(t, "https://aclanthology.org/volumes/", `<body>
<a href="/volumes/2023.acl-main/">ACL main</a>
<a href="/volumes/2023.acl-main.12/">a paper</a>
<a href="/volumes/2022.naacl-srw/">NAACL SRW</a>
<a href="/volumes/2023.acl-long">no slash</a>
<a href="/events/emnlp-2023/">EMNLP 2023</a>
<a href="/people/x/">x</a>
</body>`)
	got := flatten(aclVenues(p, types.Scope{}))
	assert.Equal(t, []flat{
		{URL: "https://aclanthology.org/volumes/2023.acl-main/", Group: "2023", Scope: types.Scope{Year: "2023", Conference: "ACL", Track: "Main"}},
		{URL: "https://aclanthology.org/volumes/2022.naacl-srw/", Group: "2022", Scope: types.Scope{Year: "2022", Conference: "NAACL", Track: "Srw"}},
		{URL: "https://aclanthology.org/events/emnlp-2023/", Group: "2023", Scope: types.Scope{Year: "2023", Conference: "EMNLP", Track: "Event"}},
	}, got)
}

func TestACLPapersAndAuthors(t *testing.T) {
	p := page(t, "https://aclanthology.org/volumes/2023.acl-main/", `<body>
<a href="/2023.acl-main.1/">p1</a>
<a href="/P23-1001/">old</a>
<a href="/W00-1301">workshop</a>
<a href="/2022.acl-main.5/">other year</a>
<a href="/volumes/2023.acl-main/">volume</a>
</body>`)
	var urls []string
	for _, tg := range aclPapers(p, types.Scope{Year: "2023"}) {
		urls = append(urls, tg.URL)
	}
	assert.Equal(t, []string{
		"https://aclanthology.org/2023.acl-main.1/",
		"https://aclanthology.org/P23-1001/",
		"https://aclanthology.org/W00-1301",
	}, urls)

	paper := page(t, "https://aclanthology.org/2023.acl-main.1/", `<body>
<a href="/people/a/alice-smith/">Alice  Smith</a><a href="/people/b/bob-lee/">Bob Lee</a></body>`)
	assert.Equal(t, []types.Author{{Name: "Alice Smith"}, {Name: "Bob Lee"}}, aclAuthors(paper))
}

func TestACLSeeds(t *testing.T) {
	got := aclSeeds(types.YearRange{Start: 2022, End: 2023})
	require.Len(t, got, 2)
	assert.Equal(t, aclBase+"/volumes/", got[0].URL)
	assert.Equal(t, aclBase+"/events/", got[1].URL)
	assert.True(t, ACL().RequiresYears)
}

func TestACMConferences(t *testing.T) {
	p := page(t, "https://dl.acm.org/proceedings", `<body>
<div class="proc-group-header-3 accordion">3D
 (12)</div>
<div><a href="/proceedings/3dui">3DUI '20</a><a href="/doi/book/x">book</a><a href="/proceedings/3dv">3DV</a></div>
<div class="proc-group-header-a">AAMAS (4)</div>
<div><a href="/proceedings/aamas">AAMAS '22</a></div>
</body>`)
	got := flatten(acmConferences(p, types.Scope{}))
	assert.Equal(t, []flat{
		{URL: "https://dl.acm.org/proceedings/3dui", Group: "3D", Scope: types.Scope{Conference: "3DUI '20"}},
		{URL: "https://dl.acm.org/proceedings/3dv", Group: "3D", Scope: types.Scope{Conference: "3DV"}},
		{URL: "https://dl.acm.org/proceedings/aamas", Group: "AAMAS", Scope: types.Scope{Conference: "AAMAS '22"}},
	}, got)
}

func TestACMPaperPage(t *testing.T) {
	conf := page(t, "https://dl.acm.org/doi/proceedings/10.1145/1", `<body>
<a class="issue-item-title" href="/doi/abs/10.1145/1.2">Paper</a>
<a class="issue-item-title" href="/toc/x">toc</a></body>`)
	papers := acmPapers(conf, types.Scope{})
	require.Len(t, papers, 1)
	assert.Equal(t, "https://dl.acm.org/doi/abs/10.1145/1.2", papers[0].URL)

	p := page(t, "https://dl.acm.org/doi/abs/10.1145/1.2", `<body>
<h1 class="citation__title">Great  Paper</h1><span class="citation__date">June 2021</span>
<ul>
<li class="author-list__item"><a class="author-name">Ann Lee</a><div class="author-affiliation">MIT</div></li>
<li class="author-list__item"><a class="author-name">Tom Ray</a></li>
</ul>
<a class="issue-navigation__content-link" href="/doi/epdf/10.1145/1.2">eReader</a>
<a class="issue-navigation__content-link" href="/doi/pdf/10.1145/1.2">PDF</a>
</body>`)
	scope := acmPaperScope(p, types.Scope{Conference: "3DV"})
	assert.Equal(t, types.Scope{Year: "2021", Conference: "3DV", Track: "Great Paper"}, scope)
	assert.Equal(t, []types.Author{{Name: "Ann Lee", Affiliation: "MIT"}, {Name: "Tom Ray"}}, acmAuthors(p))
	assert.Equal(t, "https://dl.acm.org/doi/pdf/10.1145/1.2", acmPDFURL(p))
}

func TestCEURVolumes(t *testing.T) {
	p := page(t, "https://ceur-ws.org/", `<body>
<a href="Vol-4119/">Vol-4119</a>
<a href="Vol-4120/">Workshop on Things</a>
<a href="Vol-4119/">again</a>
<a href="about.html">About</a>
</body>`)
	got := flatten(ceurVolumes(p, types.Scope{}))
	assert.Equal(t, []flat{
		{URL: "https://ceur-ws.org/Vol-4120/", Scope: types.Scope{Conference: "Workshop on Things", Track: "Vol-4120"}},
		{URL: "https://ceur-ws.org/Vol-4119/", Scope: types.Scope{Conference: "Volume 4119", Track: "Vol-4119"}},
	}, got)
}

func TestCEURPapers(t *testing.T) {
	p := page(t, "https://ceur-ws.org/Vol-4120/", `<body><h1>Proceedings, Berlin 2024</h1>
<a href="paper1.pdf">P1</a><a href="index.html">x</a></body>`)
	got := flatten(ceurPapers(p, types.Scope{}))
	assert.Equal(t, []flat{{URL: "https://ceur-ws.org/Vol-4120/paper1.pdf", Scope: types.Scope{Year: "2024"}}}, got)
}

func TestSWJYearsAndPapers(t *testing.T) {
	p := page(t, "https://www.semantic-web-journal.net/issues", `<body>
<a href="/issues/2023">Issues in 2023</a>
<a href="/issues/2024">Issues in 2024</a>
<a href="/issues/2024b">Issues in 2024</a>
<a href="/about">About</a></body>`)
	got := flatten(swjYears(p, types.Scope{}))
	assert.Equal(t, []flat{
		{URL: "https://www.semantic-web-journal.net/issues/2024", Scope: types.Scope{Year: "2024", Conference: swjName, Track: "Volume 2024"}},
		{URL: "https://www.semantic-web-journal.net/issues/2023", Scope: types.Scope{Year: "2023", Conference: swjName, Track: "Volume 2023"}},
	}, got)

	year := page(t, "https://www.semantic-web-journal.net/issues/2024", `<body>
<a href="/content/linked-data">Linked Data</a>
<a href="/content/linked-data.pdf">pdf</a>
<a href="/node/1">node</a></body>`)
	papers := swjPapers(year, types.Scope{})
	require.Len(t, papers, 1)
	assert.Equal(t, "https://www.semantic-web-journal.net/content/linked-data", papers[0].URL)
}

func TestSWJAuthors(t *testing.T) {
	p := page(t, "https://www.semantic-web-journal.net/content/x", `<body>
<div class="field-name-field-authors">Alice Smith, Bob Lee and Carol King; Al</div></body>`)
	assert.Equal(t, []types.Author{{Name: "Alice Smith"}, {Name: "Bob Lee"}, {Name: "Carol King"}}, swjAuthors(p))

	p = page(t, "https://www.semantic-web-journal.net/content/y", `<body>
<div class="author">Dana Fox</div><div class="author"> </div></body>`)
	assert.Equal(t, []types.Author{{Name: "Dana Fox"}}, swjAuthors(p))
}
