// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/paperscout/pkg/types"
)

const sampleSize = 5

// VenueCount is the number of records for one year, conference, and track.
type VenueCount struct {
	Year       string
	Conference string
	Track      string
	Records    int
	Emails     int
}

// TrackSpan is the range of years in which a conference track appears.
type TrackSpan struct {
	Conference string
	Track      string
	FirstYear  string
	LastYear   string
}

// Summary aggregates a set of records.
type Summary struct {
	Records   int
	WithEmail int
	Papers    int
	ByVenue   []VenueCount
	Tracks    []TrackSpan
	Samples   []types.AuthorRecord
}

type venueKey struct{ year, conference, track string }
type trackKey struct{ conference, track string }

// Summarize computes the summary of records. Venues are ordered by year,
// conference, and track; tracks by conference and track.
func Summarize(records []types.AuthorRecord) Summary {
	var s Summary
	venues := make(map[venueKey]*VenueCount)
	tracks := make(map[trackKey]*TrackSpan)
	papers := make(map[string]bool)

	for _, r := range records {
		s.Records++
		papers[r.PaperURL] = true
		hasEmail := r.Email != ""
		if hasEmail {
			s.WithEmail++
		}

		vk := venueKey{r.Year, r.Conference, r.Track}
		v, ok := venues[vk]
		if !ok {
			v = &VenueCount{Year: r.Year, Conference: r.Conference, Track: r.Track}
			venues[vk] = v
		}
		v.Records++
		if hasEmail {
			v.Emails++
		}

		tk := trackKey{r.Conference, r.Track}
		t, ok := tracks[tk]
		if !ok {
			tracks[tk] = &TrackSpan{Conference: r.Conference, Track: r.Track, FirstYear: r.Year, LastYear: r.Year}
			continue
		}
		if r.Year < t.FirstYear {
			t.FirstYear = r.Year
		}
		if r.Year > t.LastYear {
			t.LastYear = r.Year
		}
	}
	s.Papers = len(papers)

	for _, v := range venues {
		s.ByVenue = append(s.ByVenue, *v)
	}
	sort.Slice(s.ByVenue, func(i, j int) bool {
		a, b := s.ByVenue[i], s.ByVenue[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Conference != b.Conference {
			return a.Conference < b.Conference
		}
		return a.Track < b.Track
	})

	for _, t := range tracks {
		s.Tracks = append(s.Tracks, *t)
	}
	sort.Slice(s.Tracks, func(i, j int) bool {
		a, b := s.Tracks[i], s.Tracks[j]
		if a.Conference != b.Conference {
			return a.Conference < b.Conference
		}
		return a.Track < b.Track
	})

	n := min(len(records), sampleSize)
	s.Samples = append([]types.AuthorRecord(nil), records[:n]...)
	return s
}

// YearRange formats the span as "2021-2023", or a single year.
func (t TrackSpan) YearRange() string {
	if t.FirstYear == t.LastYear {
		return t.FirstYear
	}
	return t.FirstYear + "-" + t.LastYear
}

// Print writes the summary in the run-summary layout.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Records: %d (%d with email) across %d papers\n", s.Records, s.WithEmail, s.Papers)
	fmt.Fprintf(w, "Conferences/tracks discovered: %d\n", len(s.Tracks))

	if len(s.Tracks) > 0 {
		fmt.Fprintln(w, "\nConferences/tracks:")
		for _, t := range s.Tracks {
			fmt.Fprintf(w, "  %s (%s): %s\n", t.Conference, t.Track, t.YearRange())
		}
	}

	if len(s.ByVenue) > 0 {
		fmt.Fprintln(w, "\nBy year, conference, and track:")
		for _, v := range s.ByVenue {
			fmt.Fprintf(w, "  %s %s (%s): %d records, %d emails\n", v.Year, v.Conference, v.Track, v.Records, v.Emails)
		}
	}

	if len(s.Samples) > 0 {
		fmt.Fprintln(w, "\nSample records:")
		for i, r := range s.Samples {
			fmt.Fprintf(w, "  %d. %s - %s - %s %s (%s)\n", i+1, r.Name, r.Email, r.Year, r.Conference, r.Track)
		}
	}
}
