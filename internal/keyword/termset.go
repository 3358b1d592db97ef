// Package keyword implements the matching core: the tracked term set,
// the text/record matcher, and corpus-wide aggregation.
package keyword

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"parlwatch/internal/logger"
)

// DefaultMinTermLength is the minimum trimmed length a raw term must
// have to be accepted into a set.
const DefaultMinTermLength = 3

var setLog = logger.New("keywords")

// TermSet is the collection of tracked terms. Terms are normalized on
// insertion (trimmed, lowercased unless case-sensitive) and deduplicated
// by normalized value. Iteration order is insertion order, which
// downstream ranking relies on for stable tie-breaking.
//
// A TermSet is not safe for concurrent mutation; callers exposing it to
// multiple goroutines must serialize access.
type TermSet struct {
	minLength     int
	caseSensitive bool
	terms         []string
	index         map[string]int
}

// NewTermSet creates an empty set. minLength must be at least 1.
func NewTermSet(minLength int, caseSensitive bool) (*TermSet, error) {
	if minLength < 1 {
		return nil, fmt.Errorf("invalid minimum term length %d: must be >= 1", minLength)
	}
	return &TermSet{
		minLength:     minLength,
		caseSensitive: caseSensitive,
		index:         make(map[string]int),
	}, nil
}

// CaseSensitive reports whether the set preserves case.
func (s *TermSet) CaseSensitive() bool { return s.caseSensitive }

// Normalize trims and case-folds a raw term according to the set's
// policy. It reports false when the trimmed value is shorter than the
// configured minimum and must be rejected.
func (s *TermSet) Normalize(raw string) (string, bool) {
	term := strings.TrimSpace(raw)
	if len(term) < s.minLength {
		return "", false
	}
	if !s.caseSensitive {
		term = strings.ToLower(term)
	}
	return term, true
}

// Add inserts a term. Rejected or already-present terms leave the set
// unchanged; Add reports whether the set grew.
func (s *TermSet) Add(raw string) bool {
	term, ok := s.Normalize(raw)
	if !ok {
		setLog.Warn("rejected term below minimum length", "term", strings.TrimSpace(raw), "min", s.minLength)
		return false
	}
	if _, exists := s.index[term]; exists {
		return false
	}
	s.index[term] = len(s.terms)
	s.terms = append(s.terms, term)
	return true
}

// Remove deletes a term. Removing an absent term is a no-op, logged at
// warn level.
func (s *TermSet) Remove(raw string) bool {
	term := strings.TrimSpace(raw)
	if !s.caseSensitive {
		term = strings.ToLower(term)
	}
	pos, exists := s.index[term]
	if !exists {
		setLog.Warn("term not found", "term", term)
		return false
	}
	s.terms = append(s.terms[:pos], s.terms[pos+1:]...)
	delete(s.index, term)
	for i := pos; i < len(s.terms); i++ {
		s.index[s.terms[i]] = i
	}
	return true
}

// Contains reports whether the normalized form of raw is in the set.
func (s *TermSet) Contains(raw string) bool {
	term := strings.TrimSpace(raw)
	if !s.caseSensitive {
		term = strings.ToLower(term)
	}
	_, ok := s.index[term]
	return ok
}

// Len returns the number of terms.
func (s *TermSet) Len() int { return len(s.terms) }

// Terms returns the terms in insertion order.
func (s *TermSet) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Position returns the insertion rank of an already-normalized term,
// used for stable tie-breaking in rankings. Unknown terms rank last.
func (s *TermSet) Position(term string) int {
	if pos, ok := s.index[term]; ok {
		return pos
	}
	return len(s.terms)
}

// Read loads terms from a newline-delimited reader. Blank lines are
// skipped; each remaining line is trimmed and passed through Add. It
// returns the number of terms added.
func (s *TermSet) Read(r io.Reader) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if s.Add(line) {
			added++
		}
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("failed to read terms: %w", err)
	}
	return added, nil
}

// LoadFile loads terms from a newline-delimited file.
func (s *TermSet) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open term file: %w", err)
	}
	defer f.Close()

	added, err := s.Read(f)
	if err != nil {
		return added, err
	}
	setLog.Info("loaded terms", "file", path, "count", s.Len())
	return added, nil
}

// SaveFile writes the terms to a file, one per line, in insertion
// order.
func (s *TermSet) SaveFile(path string) error {
	var b strings.Builder
	for _, term := range s.terms {
		b.WriteString(term)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save term file: %w", err)
	}
	return nil
}
