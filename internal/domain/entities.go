package domain

import "time"

// Record is one unit of monitored content, as returned by a document
// source. Field names and value shapes depend on the upstream API, so
// records stay schemaless and consumers probe for the fields they know.
type Record map[string]any

// StringField returns the named field if it is present and string-typed.
func (r Record) StringField(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Title returns a display title for the record.
func (r Record) Title() string {
	if s, ok := r.StringField("title"); ok && s != "" {
		return s
	}
	return "(untitled)"
}

// MatchResult maps a term to its occurrence count within a single text
// or record. Only terms that actually occur appear, so every value is
// at least 1.
type MatchResult map[string]int

// TermCount is one entry of an AggregateStats ranking.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// AggregateStats is a ranking of term occurrence totals across a record
// set, ordered by descending count. Terms with equal counts keep the
// term set's iteration order.
type AggregateStats []TermCount

// Count returns the total for a term and whether the term is present.
func (s AggregateStats) Count(term string) (int, bool) {
	for _, tc := range s {
		if tc.Term == term {
			return tc.Count, true
		}
	}
	return 0, false
}

// Terms returns the ranked terms in order.
func (s AggregateStats) Terms() []string {
	terms := make([]string, len(s))
	for i, tc := range s {
		terms[i] = tc.Term
	}
	return terms
}

// TrendEntry is the percentage change of a term's occurrence count
// between two adjacent comparison windows. A positive Change means the
// term occurred more often in the later window.
type TrendEntry struct {
	Term   string  `json:"term"`
	Change float64 `json:"change_pct"`
}

// Prediction is a projected occurrence count for a term over a future
// horizon. Projected is never negative.
type Prediction struct {
	Term      string  `json:"term"`
	Projected float64 `json:"projected"`
}

// DayRange is a contiguous inclusive date range used for aggregation
// windows.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered, counting both ends.
func (r DayRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}
