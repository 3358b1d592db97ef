package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"parlwatch/internal/domain"
)

// CSVDirSource reads records from CSV exports in a data directory.
// Files are selected by glob patterns with the date substituted for
// {date}, so a layout like plenary_documents_2024-05-01.csv works out
// of the box. The header row supplies the field names.
type CSVDirSource struct {
	dir      string
	patterns []string
}

// NewCSVDirSource creates a source over dir. With no patterns, any CSV
// file whose name contains the date is matched.
func NewCSVDirSource(dir string, patterns []string) *CSVDirSource {
	if len(patterns) == 0 {
		patterns = []string{"**/*{date}*.csv"}
	}
	return &CSVDirSource{dir: dir, patterns: patterns}
}

// FetchByDate returns the records from all files matching the date's
// patterns. A date with no matching files yields an empty slice.
func (s *CSVDirSource) FetchByDate(ctx context.Context, date time.Time) ([]domain.Record, error) {
	paths, err := s.matchFiles(date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileRecords, err := readCSVRecords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		records = append(records, fileRecords...)
	}
	if len(paths) > 0 {
		srcLog.Info("loaded records from csv", "files", len(paths), "records", len(records))
	}
	return records, nil
}

// FetchYear returns records for every day of the year, bounded by
// limit (0 means unbounded).
func (s *CSVDirSource) FetchYear(ctx context.Context, year int, limit int) ([]domain.Record, error) {
	var records []domain.Record
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		dayRecords, err := s.FetchByDate(ctx, day)
		if err != nil {
			return nil, err
		}
		records = append(records, dayRecords...)
		if limit > 0 && len(records) >= limit {
			return records[:limit], nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return records, nil
}

func (s *CSVDirSource) matchFiles(date string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.dir {
				return filepath.SkipAll
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		for _, pattern := range s.patterns {
			expanded := strings.ReplaceAll(pattern, "{date}", date)
			matched, err := doublestar.Match(expanded, rel)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			if matched && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// readCSVRecords loads one CSV file. Every value is a string; the
// matcher's field probing handles that uniformly.
func readCSVRecords(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
