// Package analysis implements windowed trend comparison and occurrence
// projection over aggregated keyword statistics.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"parlwatch/internal/domain"
	"parlwatch/internal/keyword"
	"parlwatch/internal/logger"
)

// DefaultWindowDays is the default length of the trend comparison
// period.
const DefaultWindowDays = 30

var analysisLog = logger.New("analysis")

// CollectFunc fetches the records for an inclusive day range. The trend
// analyzer propagates its errors unchanged; a window with no records is
// an empty slice, not an error.
type CollectFunc func(start, end time.Time) ([]domain.Record, error)

// TrendAnalyzer splits a period into two adjacent windows, aggregates
// each independently and computes per-term percentage deltas.
type TrendAnalyzer struct {
	aggregator *keyword.Aggregator
	terms      *keyword.TermSet
	windowDays int
}

// NewTrendAnalyzer creates a TrendAnalyzer. windowDays must be
// positive.
func NewTrendAnalyzer(aggregator *keyword.Aggregator, terms *keyword.TermSet, windowDays int) (*TrendAnalyzer, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("invalid trend window of %d days: must be positive", windowDays)
	}
	return &TrendAnalyzer{
		aggregator: aggregator,
		terms:      terms,
		windowDays: windowDays,
	}, nil
}

// WindowDays returns the configured comparison period length.
func (a *TrendAnalyzer) WindowDays() int { return a.windowDays }

// SplitWindow computes the two comparison halves of the period ending
// at end. The midpoint uses floor division, so an odd window leaves the
// second half one day longer; downstream consumers rely on that skew
// and it must not be evened out.
func (a *TrendAnalyzer) SplitWindow(end time.Time) (first, second domain.DayRange) {
	start := end.AddDate(0, 0, -a.windowDays)
	mid := start.AddDate(0, 0, a.windowDays/2)
	first = domain.DayRange{Start: start, End: mid}
	second = domain.DayRange{Start: mid.AddDate(0, 0, 1), End: end}
	return first, second
}

// Analyze compares the two halves of the window ending at end and
// returns the percentage change for every term occurring in either
// half, ordered by descending absolute change.
//
// The change is ((second-first)/first)*100 when the first half has
// occurrences, exactly 100 when a term appears only in the second half,
// and 0 when both counts are zero.
func (a *TrendAnalyzer) Analyze(end time.Time, collect CollectFunc) ([]domain.TrendEntry, error) {
	firstWin, secondWin := a.SplitWindow(end)

	firstRecs, err := collect(firstWin.Start, firstWin.End)
	if err != nil {
		return nil, fmt.Errorf("failed to collect first window: %w", err)
	}
	secondRecs, err := collect(secondWin.Start, secondWin.End)
	if err != nil {
		return nil, fmt.Errorf("failed to collect second window: %w", err)
	}

	firstStats, err := a.aggregator.Stats(firstRecs)
	if err != nil {
		return nil, err
	}
	secondStats, err := a.aggregator.Stats(secondRecs)
	if err != nil {
		return nil, err
	}

	trends := a.compare(firstStats, secondStats)
	analysisLog.Info("analyzed trends",
		"terms", len(trends),
		"first_days", firstWin.Days(),
		"first_records", len(firstRecs),
		"second_days", secondWin.Days(),
		"second_records", len(secondRecs))
	return trends, nil
}

// compare applies the percentage-change rule over the union of terms
// present in either ranking.
func (a *TrendAnalyzer) compare(first, second domain.AggregateStats) []domain.TrendEntry {
	seen := make(map[string]bool)
	var union []string
	for _, tc := range first {
		if !seen[tc.Term] {
			seen[tc.Term] = true
			union = append(union, tc.Term)
		}
	}
	for _, tc := range second {
		if !seen[tc.Term] {
			seen[tc.Term] = true
			union = append(union, tc.Term)
		}
	}

	// Order the union by term set rank before the stable sort so equal
	// magnitudes come out deterministically.
	sort.SliceStable(union, func(i, j int) bool {
		return a.terms.Position(union[i]) < a.terms.Position(union[j])
	})

	trends := make([]domain.TrendEntry, 0, len(union))
	for _, term := range union {
		firstCount, _ := first.Count(term)
		secondCount, _ := second.Count(term)

		var change float64
		switch {
		case firstCount > 0:
			change = (float64(secondCount-firstCount) / float64(firstCount)) * 100
		case secondCount > 0:
			change = 100
		default:
			change = 0
		}
		trends = append(trends, domain.TrendEntry{Term: term, Change: change})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return math.Abs(trends[i].Change) > math.Abs(trends[j].Change)
	})
	return trends
}
