// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Store mirrors appended records into a SQLite database so runs can be
// queried and summarized with SQL.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path and its schema.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			site TEXT NOT NULL,
			year TEXT NOT NULL,
			conference TEXT NOT NULL DEFAULT '',
			track TEXT NOT NULL DEFAULT '',
			paper_url TEXT NOT NULL,
			pdf_url TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			affiliation TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_paper_url ON records(paper_url)`,
		`CREATE INDEX IF NOT EXISTS idx_records_email ON records(email)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append inserts records in one transaction.
func (s *Store) Append(records []types.AuthorRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO records (site, year, conference, track, paper_url, pdf_url, email, name, affiliation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		r = Finalize(r)
		if _, err := stmt.Exec(r.Site, r.Year, r.Conference, r.Track, r.PaperURL, r.PDFURL,
			r.Email, r.Name, r.Affiliation, now); err != nil {
			return fmt.Errorf("inserting record for %s: %w", r.PaperURL, err)
		}
	}
	return tx.Commit()
}

// Records returns every stored record in insertion order.
func (s *Store) Records(ctx context.Context) ([]types.AuthorRecord, error) {
	return s.queryRecords(ctx, `SELECT site, year, conference, track, paper_url, pdf_url, email, name, affiliation
		FROM records ORDER BY id`)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]types.AuthorRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []types.AuthorRecord
	for rows.Next() {
		var r types.AuthorRecord
		if err := rows.Scan(&r.Site, &r.Year, &r.Conference, &r.Track, &r.PaperURL, &r.PDFURL,
			&r.Email, &r.Name, &r.Affiliation); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary computes the run summary with SQL over the stored records.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), COALESCE(SUM(email != ''), 0), count(DISTINCT paper_url) FROM records`,
	).Scan(&sum.Records, &sum.WithEmail, &sum.Papers)
	if err != nil {
		return Summary{}, fmt.Errorf("counting records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, conference, track, count(*), COALESCE(SUM(email != ''), 0)
		 FROM records GROUP BY year, conference, track ORDER BY year, conference, track`)
	if err != nil {
		return Summary{}, fmt.Errorf("grouping by venue: %w", err)
	}
	for rows.Next() {
		var v VenueCount
		if err := rows.Scan(&v.Year, &v.Conference, &v.Track, &v.Records, &v.Emails); err != nil {
			rows.Close()
			return Summary{}, fmt.Errorf("scanning venue: %w", err)
		}
		sum.ByVenue = append(sum.ByVenue, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT conference, track, min(year), max(year)
		 FROM records GROUP BY conference, track ORDER BY conference, track`)
	if err != nil {
		return Summary{}, fmt.Errorf("grouping by track: %w", err)
	}
	for rows.Next() {
		var t TrackSpan
		if err := rows.Scan(&t.Conference, &t.Track, &t.FirstYear, &t.LastYear); err != nil {
			rows.Close()
			return Summary{}, fmt.Errorf("scanning track: %w", err)
		}
		sum.Tracks = append(sum.Tracks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	sum.Samples, err = s.queryRecords(ctx, `SELECT site, year, conference, track, paper_url, pdf_url, email, name, affiliation
		FROM records ORDER BY id LIMIT ?`, sampleSize)
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}
