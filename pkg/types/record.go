// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"unicode"
)

// UnknownYear is recorded when a paper's year cannot be inferred.
const UnknownYear = "Unknown"

// Columns is the fixed column order of the output file.
var Columns = []string{
	"site", "year", "conference", "track",
	"paper_url", "pdf_url", "email", "name", "affiliation",
}

// Author is one author tuple discovered on a paper page or in its PDF,
// before it is placed into a venue context.
type Author struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// HasEmail reports whether the author carries an email address.
func (a Author) HasEmail() bool {
	return a.Email != ""
}

// Scope carries the venue labels inherited down the traversal
// (index → group → venue → paper).
type Scope struct {
	Year       string `json:"year" yaml:"year"`
	Conference string `json:"conference" yaml:"conference"`
	Track      string `json:"track" yaml:"track"`
}

// Merge returns s with every non-empty field of o applied on top.
func (s Scope) Merge(o Scope) Scope {
	if o.Year != "" {
		s.Year = o.Year
	}
	if o.Conference != "" {
		s.Conference = o.Conference
	}
	if o.Track != "" {
		s.Track = o.Track
	}
	return s
}

// AuthorRecord is one discovered author-paper association: one output row.
type AuthorRecord struct {
	Site        string `json:"site" yaml:"site"`
	Year        string `json:"year" yaml:"year"`
	Conference  string `json:"conference" yaml:"conference"`
	Track       string `json:"track" yaml:"track"`
	PaperURL    string `json:"paper_url" yaml:"paper_url"`
	PDFURL      string `json:"pdf_url" yaml:"pdf_url"`
	Email       string `json:"email" yaml:"email"`
	Name        string `json:"name" yaml:"name"`
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// NewRecord places an author into its site and venue context.
func NewRecord(site string, scope Scope, paperURL, pdfURL string, a Author) AuthorRecord {
	year := scope.Year
	if year == "" {
		year = UnknownYear
	}
	return AuthorRecord{
		Site:        site,
		Year:        year,
		Conference:  scope.Conference,
		Track:       scope.Track,
		PaperURL:    paperURL,
		PDFURL:      pdfURL,
		Email:       a.Email,
		Name:        a.Name,
		Affiliation: a.Affiliation,
	}
}

// Row returns the record's fields in Columns order.
func (r AuthorRecord) Row() []string {
	return []string{
		r.Site, r.Year, r.Conference, r.Track,
		r.PaperURL, r.PDFURL, r.Email, r.Name, r.Affiliation,
	}
}

// RecordFromRow is the inverse of Row. Missing trailing columns are left empty.
func RecordFromRow(row []string) AuthorRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return AuthorRecord{
		Site:        get(0),
		Year:        get(1),
		Conference:  get(2),
		Track:       get(3),
		PaperURL:    get(4),
		PDFURL:      get(5),
		Email:       get(6),
		Name:        get(7),
		Affiliation: get(8),
	}
}

// NameFromEmail derives a display name from an email local part:
// "john.doe@x.org" becomes "John Doe".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = TitleCase(w)
	}
	return strings.Join(words, " ")
}

// TitleCase upper-cases the first letter of each alphabetic run and
// lower-cases the rest ("o'neil" → "O'Neil", "jean-luc" → "Jean-Luc").
func TitleCase(w string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range w {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// CandidateLink is a traversal edge discovered on a listing page.
type CandidateLink struct {
	URL   string `json:"url" yaml:"url"`
	Label string `json:"label" yaml:"label"`
}
