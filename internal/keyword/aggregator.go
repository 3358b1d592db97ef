package keyword

import (
	"sort"

	"parlwatch/internal/domain"
)

// Aggregator combines per-record match results into corpus-wide term
// rankings.
type Aggregator struct {
	matcher    *Matcher
	terms      *TermSet
	maxResults int
}

// NewAggregator creates an Aggregator. maxResults caps how many
// matching records Filter collects; 0 means no cap.
func NewAggregator(matcher *Matcher, terms *TermSet, maxResults int) *Aggregator {
	return &Aggregator{
		matcher:    matcher,
		terms:      terms,
		maxResults: maxResults,
	}
}

// Filter returns the records containing at least one term, in input
// order. Collection stops as soon as maxResults matches are found;
// remaining records are not evaluated.
func (a *Aggregator) Filter(records []domain.Record) ([]domain.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var matching []domain.Record
	for _, rec := range records {
		matched, _, err := a.matcher.MatchRecord(rec)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		matching = append(matching, rec)
		if a.maxResults > 0 && len(matching) >= a.maxResults {
			setLog.Warn("result cap reached", "max", a.maxResults)
			break
		}
	}
	return matching, nil
}

// Stats sums term occurrences across all records and ranks them by
// descending total. Terms with equal totals keep the term set's
// iteration order. An empty record set yields an empty ranking.
func (a *Aggregator) Stats(records []domain.Record) (domain.AggregateStats, error) {
	if len(records) == 0 {
		return domain.AggregateStats{}, nil
	}

	totals := make(map[string]int)
	for _, rec := range records {
		_, result, err := a.matcher.MatchRecord(rec)
		if err != nil {
			return nil, err
		}
		for term, count := range result {
			totals[term] += count
		}
	}

	// Build in term set order so the stable sort preserves it for ties.
	stats := make(domain.AggregateStats, 0, len(totals))
	for _, term := range a.terms.Terms() {
		if count, ok := totals[term]; ok {
			stats = append(stats, domain.TermCount{Term: term, Count: count})
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats, nil
}
