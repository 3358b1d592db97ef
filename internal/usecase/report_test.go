package usecase

import (
	"os"
	"strings"
	"testing"
	"time"

	"parlwatch/internal/analysis"
	"parlwatch/internal/domain"
	"parlwatch/internal/keyword"
	"parlwatch/internal/report"
)

func testReports(t *testing.T, st *fakeStore, windowDays, horizonDays int) *Reports {
	t.Helper()
	set, err := keyword.NewTermSet(3, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, term := range []string{"fintech", "crypto"} {
		if !set.Add(term) {
			t.Fatalf("failed to add term %q", term)
		}
	}
	agg := keyword.NewAggregator(keyword.NewMatcher(set, false), set, 0)

	analyzer, err := analysis.NewTrendAnalyzer(agg, set, windowDays)
	if err != nil {
		t.Fatal(err)
	}
	predictor, err := analysis.NewPredictor(horizonDays)
	if err != nil {
		t.Fatal(err)
	}
	gen := report.NewGenerator(t.TempDir(), 20, 50)
	return NewReports(st, agg, analyzer, predictor, gen)
}

func seedDay(st *fakeStore, day string, titles ...string) {
	date, _ := time.Parse("2006-01-02", day)
	var recs []domain.Record
	for _, title := range titles {
		recs = append(recs, domain.Record{"title": title})
	}
	st.saved[date.Format("2006-01-02")] = recs
}

func TestReportsDaily(t *testing.T) {
	st := newFakeStore()
	seedDay(st, "2024-05-10", "Fintech oversight hearing", "Crypto asset rules")

	reports := testReports(t, st, 30, 7)
	path, err := reports.Daily(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "Documents analyzed: 2") {
		t.Errorf("expected document count in report, got:\n%s", text)
	}
	if !strings.Contains(text, "fintech: 1 occurrences") {
		t.Errorf("expected fintech count in report, got:\n%s", text)
	}
}

func TestReportsDaily_NoRecords(t *testing.T) {
	reports := testReports(t, newFakeStore(), 30, 7)
	path, err := reports.Daily(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("a day without records should still produce a report, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "No documents found for this date.") {
		t.Error("expected empty-day wording in report")
	}
}

func TestReportsWeeklyPredictive(t *testing.T) {
	st := newFakeStore()
	// First half of a 14-day window ending 2024-05-14: 2024-04-30 to
	// 2024-05-07. Second half: 2024-05-08 to 2024-05-14.
	seedDay(st, "2024-05-02", "Fintech hearing")
	seedDay(st, "2024-05-10", "Fintech hearing", "Fintech follow-up")
	seedDay(st, "2024-05-12", "Crypto framework")

	reports := testReports(t, st, 14, 7)
	path, err := reports.WeeklyPredictive(time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)

	// fintech went 1 -> 2 (+100%), crypto 0 -> 1 (+100%).
	if !strings.Contains(text, "fintech: rising (+100.00%)") {
		t.Errorf("expected fintech trend line, got:\n%s", text)
	}
	if !strings.Contains(text, "crypto: rising (+100.00%)") {
		t.Errorf("expected crypto trend line, got:\n%s", text)
	}
	// fintech baseline over the 14-day window is 3 occurrences:
	// (3/14) * (1 + 100/100) * 7 = 3.
	if !strings.Contains(text, "fintech: expected around 3 occurrences") {
		t.Errorf("expected fintech prediction, got:\n%s", text)
	}
	if !strings.Contains(text, "PREDICTIONS FOR NEXT WEEK") {
		t.Error("expected predictions section")
	}
}

func TestReportsWeeklyPredictive_NoData(t *testing.T) {
	reports := testReports(t, newFakeStore(), 14, 7)
	path, err := reports.WeeklyPredictive(time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("a window without records should still produce a report, got %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	if !strings.Contains(text, "Insufficient data for trend analysis.") {
		t.Error("expected empty trend wording")
	}
	if !strings.Contains(text, "Insufficient data to generate predictions.") {
		t.Error("expected empty prediction wording")
	}
}
