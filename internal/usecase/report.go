package usecase

import (
	"fmt"
	"time"

	"parlwatch/internal/analysis"
	"parlwatch/internal/domain"
	"parlwatch/internal/keyword"
	"parlwatch/internal/port"
	"parlwatch/internal/report"
)

// Reports produces the daily and weekly predictive reports from stored
// records.
type Reports struct {
	store      port.RecordStore
	aggregator *keyword.Aggregator
	analyzer   *analysis.TrendAnalyzer
	predictor  *analysis.Predictor
	generator  *report.Generator
}

// NewReports creates a Reports use case.
func NewReports(store port.RecordStore, aggregator *keyword.Aggregator, analyzer *analysis.TrendAnalyzer, predictor *analysis.Predictor, generator *report.Generator) *Reports {
	return &Reports{
		store:      store,
		aggregator: aggregator,
		analyzer:   analyzer,
		predictor:  predictor,
		generator:  generator,
	}
}

// Daily aggregates the records stored for date and writes the daily
// report. A date with no records still produces a report stating so.
func (r *Reports) Daily(date time.Time) (string, error) {
	records, err := r.store.RecordsByDate(date)
	if err != nil {
		return "", fmt.Errorf("failed to collect records: %w", err)
	}
	stats, err := r.aggregator.Stats(records)
	if err != nil {
		return "", err
	}
	return r.generator.Daily(date, records, stats)
}

// WeeklyPredictive builds the report for the week ending at end: the
// week's aggregate, the trend comparison over the configured window,
// and occurrence projections for the coming horizon.
func (r *Reports) WeeklyPredictive(end time.Time) (string, error) {
	start := end.AddDate(0, 0, -7)
	weekRecords, err := r.store.RecordsByRange(start, end)
	if err != nil {
		return "", fmt.Errorf("failed to collect week records: %w", err)
	}
	weekStats, err := r.aggregator.Stats(weekRecords)
	if err != nil {
		return "", err
	}

	trends, err := r.analyzer.Analyze(end, r.store.RecordsByRange)
	if err != nil {
		return "", fmt.Errorf("failed to analyze trends: %w", err)
	}

	predictions, err := r.predict(end, trends)
	if err != nil {
		return "", err
	}

	return r.generator.WeeklyPredictive(start, end, weekRecords, weekStats, trends, predictions)
}

// predict aggregates the full trend window as the historical baseline
// and projects each trending term over the horizon.
func (r *Reports) predict(end time.Time, trends []domain.TrendEntry) ([]domain.Prediction, error) {
	if len(trends) == 0 {
		return nil, nil
	}
	windowDays := r.analyzer.WindowDays()
	historicalRecords, err := r.store.RecordsByRange(end.AddDate(0, 0, -windowDays), end)
	if err != nil {
		return nil, fmt.Errorf("failed to collect historical records: %w", err)
	}
	historical, err := r.aggregator.Stats(historicalRecords)
	if err != nil {
		return nil, err
	}
	return r.predictor.Predict(trends, historical, windowDays)
}
