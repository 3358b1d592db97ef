// Package usecase wires the matching core, adapters and collaborators
// into the monitor's operations.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"parlwatch/internal/adapter/notify"
	"parlwatch/internal/domain"
	"parlwatch/internal/keyword"
	"parlwatch/internal/logger"
	"parlwatch/internal/port"
)

var ucLog = logger.New("monitor")

// Monitor runs one fetch-analyze-notify cycle: retrieve the day's
// documents, persist them, filter for keyword matches, and when matches
// exist deliver a digest notification.
type Monitor struct {
	source     port.DocumentSource
	store      port.RecordStore
	notifier   port.Notifier
	aggregator *keyword.Aggregator

	maxNotifyDocs int
}

// NewMonitor creates a Monitor. notifier may be a disabled
// implementation but must not be nil.
func NewMonitor(source port.DocumentSource, store port.RecordStore, notifier port.Notifier, aggregator *keyword.Aggregator, maxNotifyDocs int) *Monitor {
	return &Monitor{
		source:        source,
		store:         store,
		notifier:      notifier,
		aggregator:    aggregator,
		maxNotifyDocs: maxNotifyDocs,
	}
}

// RunResult summarizes one monitor cycle.
type RunResult struct {
	Fetched  int
	Matched  int
	Stats    domain.AggregateStats
	Notified bool
}

// Run executes one cycle for the given date.
func (m *Monitor) Run(ctx context.Context, date time.Time) (*RunResult, error) {
	records, err := m.source.FetchByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	result := &RunResult{Fetched: len(records)}
	if len(records) == 0 {
		ucLog.Info("no documents retrieved", "date", date.Format("2006-01-02"))
		return result, nil
	}

	if err := m.store.SaveRecords(date, records); err != nil {
		return nil, fmt.Errorf("failed to store documents: %w", err)
	}

	matching, err := m.aggregator.Filter(records)
	if err != nil {
		return nil, err
	}
	result.Matched = len(matching)
	if len(matching) == 0 {
		ucLog.Info("no documents matched keywords", "date", date.Format("2006-01-02"), "fetched", len(records))
		return result, nil
	}

	stats, err := m.aggregator.Stats(matching)
	if err != nil {
		return nil, err
	}
	result.Stats = stats

	subject := fmt.Sprintf("%d matching documents on %s", len(matching), date.Format("2006-01-02"))
	body := notify.MatchDigest(matching, stats, m.maxNotifyDocs)
	if err := m.notifier.Notify(ctx, subject, body); err != nil {
		return nil, fmt.Errorf("failed to notify: %w", err)
	}
	result.Notified = true

	ucLog.Info("monitor cycle complete",
		"date", date.Format("2006-01-02"),
		"fetched", result.Fetched,
		"matched", result.Matched)
	return result, nil
}

// RunYear executes one cycle over a whole calendar year: fetch up to
// limit documents, store them under their publication dates, and report
// matches like Run. Records without a parseable date are still matched
// but cannot be stored.
func (m *Monitor) RunYear(ctx context.Context, year int, limit int) (*RunResult, error) {
	records, err := m.source.FetchYear(ctx, year, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	result := &RunResult{Fetched: len(records)}
	if len(records) == 0 {
		ucLog.Info("no documents retrieved", "year", year)
		return result, nil
	}

	byDate, undated := groupByDate(records)
	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, date := range dates {
		if err := m.store.SaveRecords(date, byDate[date]); err != nil {
			return nil, fmt.Errorf("failed to store documents: %w", err)
		}
	}
	if len(undated) > 0 {
		ucLog.Warn("records without a publication date were not stored", "count", len(undated))
	}

	matching, err := m.aggregator.Filter(records)
	if err != nil {
		return nil, err
	}
	result.Matched = len(matching)
	if len(matching) == 0 {
		ucLog.Info("no documents matched keywords", "year", year, "fetched", len(records))
		return result, nil
	}

	stats, err := m.aggregator.Stats(matching)
	if err != nil {
		return nil, err
	}
	result.Stats = stats

	subject := fmt.Sprintf("%d matching documents in %d", len(matching), year)
	body := notify.MatchDigest(matching, stats, m.maxNotifyDocs)
	if err := m.notifier.Notify(ctx, subject, body); err != nil {
		return nil, fmt.Errorf("failed to notify: %w", err)
	}
	result.Notified = true

	ucLog.Info("year cycle complete",
		"year", year,
		"fetched", result.Fetched,
		"matched", result.Matched)
	return result, nil
}

// groupByDate buckets records by publication date. Records carrying no
// parseable date field come back in the second slice.
func groupByDate(records []domain.Record) (map[time.Time][]domain.Record, []domain.Record) {
	byDate := make(map[time.Time][]domain.Record)
	var undated []domain.Record
	for _, rec := range records {
		date, ok := recordDate(rec)
		if !ok {
			undated = append(undated, rec)
			continue
		}
		byDate[date] = append(byDate[date], rec)
	}
	return byDate, undated
}

func recordDate(rec domain.Record) (time.Time, bool) {
	for _, field := range []string{"date", "publication_date"} {
		s, ok := rec.StringField(field)
		if !ok {
			continue
		}
		// Tolerate full timestamps by keeping the date prefix.
		if len(s) > 10 {
			s = s[:10]
		}
		if d, err := time.Parse("2006-01-02", s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
