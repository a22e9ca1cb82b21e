// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists author records: an append-only CSV file, an
// optional SQLite mirror, and readers that summarize what was written.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Finalize applies the sink-time name fallback: a record with an email but
// no name gets a name derived from the email's local part.
func Finalize(r types.AuthorRecord) types.AuthorRecord {
	if r.Name == "" && r.Email != "" {
		r.Name = types.NameFromEmail(r.Email)
	}
	return r
}

// CSV appends records to a CSV file. It never rewrites existing rows.
type CSV struct {
	path string
}

// OpenCSV prepares path for appending, creating the file with a header row
// if it does not exist.
func OpenCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		return &CSV{path: path}, nil
	case err != nil:
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeRows(f, [][]string{types.Columns}); err != nil {
		return nil, fmt.Errorf("writing header to %s: %w", path, err)
	}
	return &CSV{path: path}, nil
}

// Path returns the destination file.
func (c *CSV) Path() string { return c.path }

// Append writes records as one flushed batch.
func (c *CSV) Append(records []types.AuthorRecord) error {
	if len(records) == 0 {
		return nil
	}
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", c.path, err)
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = Finalize(r).Row()
	}
	if err := writeRows(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("appending to %s: %w", c.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", c.path, err)
	}
	return f.Close()
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadCSV loads every record from a CSV written by this package. The
// header row is skipped.
func ReadCSV(path string) ([]types.AuthorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []types.AuthorRecord
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == types.Columns[0] {
			continue
		}
		out = append(out, types.RecordFromRow(row))
	}
	return out, nil
}
