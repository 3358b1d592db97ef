package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"parlwatch/internal/domain"
	"parlwatch/internal/keyword"
)

func testAnalyzer(t *testing.T, windowDays int, terms ...string) (*TrendAnalyzer, *keyword.TermSet) {
	t.Helper()
	set, err := keyword.NewTermSet(3, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, term := range terms {
		set.Add(term)
	}
	agg := keyword.NewAggregator(keyword.NewMatcher(set, false), set, 0)
	analyzer, err := NewTrendAnalyzer(agg, set, windowDays)
	if err != nil {
		t.Fatal(err)
	}
	return analyzer, set
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// repeatTerm builds a record containing the term n times.
func repeatTerm(term string, n int) domain.Record {
	return domain.Record{"content": strings.TrimSpace(strings.Repeat(term+" ", n))}
}

func TestNewTrendAnalyzer_InvalidWindow(t *testing.T) {
	set, _ := keyword.NewTermSet(3, false)
	agg := keyword.NewAggregator(keyword.NewMatcher(set, false), set, 0)

	if _, err := NewTrendAnalyzer(agg, set, 0); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := NewTrendAnalyzer(agg, set, -5); err == nil {
		t.Error("expected error for negative window")
	}
}

func TestSplitWindow_EvenWindow(t *testing.T) {
	analyzer, _ := testAnalyzer(t, 30)

	first, second := analyzer.SplitWindow(day("2024-06-30"))

	if !first.Start.Equal(day("2024-05-31")) || !first.End.Equal(day("2024-06-15")) {
		t.Errorf("first half = [%s, %s]", first.Start, first.End)
	}
	if !second.Start.Equal(day("2024-06-16")) || !second.End.Equal(day("2024-06-30")) {
		t.Errorf("second half = [%s, %s]", second.Start, second.End)
	}
	if first.Days() != 16 || second.Days() != 15 {
		t.Errorf("half lengths = %d and %d days, want 16 and 15", first.Days(), second.Days())
	}
}

func TestSplitWindow_OddWindowKeepsFloorMidpoint(t *testing.T) {
	analyzer, _ := testAnalyzer(t, 7)

	first, second := analyzer.SplitWindow(day("2024-06-10"))

	// mid = start + 7/2 = start + 3 days. The floor-division skew is a
	// documented property and must not be evened out.
	if !first.Start.Equal(day("2024-06-03")) || !first.End.Equal(day("2024-06-06")) {
		t.Errorf("first half = [%s, %s]", first.Start, first.End)
	}
	if !second.Start.Equal(day("2024-06-07")) || !second.End.Equal(day("2024-06-10")) {
		t.Errorf("second half = [%s, %s]", second.Start, second.End)
	}
	if first.Days() != 4 || second.Days() != 4 {
		t.Errorf("half lengths = %d and %d days, want 4 and 4", first.Days(), second.Days())
	}
}

// collectHalves returns a CollectFunc serving distinct record sets for
// the two halves of the analyzer's window.
func collectHalves(analyzer *TrendAnalyzer, end time.Time, first, second []domain.Record) CollectFunc {
	firstWin, _ := analyzer.SplitWindow(end)
	return func(start, e time.Time) ([]domain.Record, error) {
		if start.Equal(firstWin.Start) {
			return first, nil
		}
		return second, nil
	}
}

func TestAnalyze_PercentageRules(t *testing.T) {
	end := day("2024-06-30")
	analyzer, _ := testAnalyzer(t, 30, "fintech", "blockchain", "crypto")

	collect := collectHalves(analyzer, end,
		[]domain.Record{repeatTerm("fintech", 10)},
		[]domain.Record{repeatTerm("fintech", 15), repeatTerm("blockchain", 3)},
	)

	trends, err := analyzer.Analyze(end, collect)
	if err != nil {
		t.Fatal(err)
	}

	byTerm := make(map[string]float64)
	for _, tr := range trends {
		byTerm[tr.Term] = tr.Change
	}

	// 10 -> 15 is +50%.
	if got := byTerm["fintech"]; got != 50.0 {
		t.Errorf("fintech trend = %f, want 50", got)
	}
	// 0 -> 3 is exactly +100%.
	if got := byTerm["blockchain"]; got != 100.0 {
		t.Errorf("blockchain trend = %f, want 100", got)
	}
	// Absent from both halves: excluded entirely.
	if _, ok := byTerm["crypto"]; ok {
		t.Error("crypto should not appear in the trend output")
	}
}

func TestAnalyze_OrderedByAbsoluteChange(t *testing.T) {
	end := day("2024-06-30")
	analyzer, _ := testAnalyzer(t, 30, "fintech", "blockchain", "crypto")

	collect := collectHalves(analyzer, end,
		[]domain.Record{repeatTerm("fintech", 10), repeatTerm("blockchain", 10), repeatTerm("crypto", 4)},
		[]domain.Record{repeatTerm("fintech", 11), repeatTerm("blockchain", 1), repeatTerm("crypto", 5)},
	)

	trends, err := analyzer.Analyze(end, collect)
	if err != nil {
		t.Fatal(err)
	}
	if len(trends) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(trends))
	}
	for i := 1; i < len(trends); i++ {
		if math.Abs(trends[i].Change) > math.Abs(trends[i-1].Change) {
			t.Errorf("entries not ordered by |change|: %v", trends)
		}
	}
	// blockchain dropped 90%, the largest mover.
	if trends[0].Term != "blockchain" {
		t.Errorf("expected blockchain first, got %s", trends[0].Term)
	}
}

func TestAnalyze_BothHalvesEmpty(t *testing.T) {
	analyzer, _ := testAnalyzer(t, 30, "fintech")

	trends, err := analyzer.Analyze(day("2024-06-30"), func(start, end time.Time) ([]domain.Record, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(trends) != 0 {
		t.Errorf("expected empty result, got %v", trends)
	}
}

func TestAnalyze_PropagatesCollectorFailure(t *testing.T) {
	analyzer, _ := testAnalyzer(t, 30, "fintech")

	boom := errors.New("store offline")
	_, err := analyzer.Analyze(day("2024-06-30"), func(start, end time.Time) ([]domain.Record, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected collector failure to propagate, got %v", err)
	}
}
