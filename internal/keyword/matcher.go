package keyword

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"parlwatch/internal/domain"
)

// recordTextFields are the record fields probed for matchable text, in
// order. Records carrying none of them fall back to a JSON
// serialization of the whole record.
var recordTextFields = []string{"title", "content", "description", "text", "summary"}

// Matcher scans text and records for term occurrences. In substring
// mode (the default) a term matches anywhere, including inside other
// words; in whole-word mode a term only matches when no alphanumeric
// character is adjacent on either side. Occurrences are counted
// non-overlapping.
type Matcher struct {
	terms     *TermSet
	wholeWord bool

	// compiled boundary patterns per term, built lazily. Term values
	// are escaped so regex metacharacters match literally.
	patterns map[string]*regexp.Regexp
}

// NewMatcher creates a Matcher over the given term set.
func NewMatcher(terms *TermSet, wholeWord bool) *Matcher {
	return &Matcher{
		terms:     terms,
		wholeWord: wholeWord,
		patterns:  make(map[string]*regexp.Regexp),
	}
}

func (m *Matcher) wordPattern(term string) (*regexp.Regexp, error) {
	if re, ok := m.patterns[term]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to build word pattern for %q: %w", term, err)
	}
	m.patterns[term] = re
	return re, nil
}

// Match counts term occurrences in text. The returned result only
// contains terms that occur at least once.
func (m *Matcher) Match(text string) (domain.MatchResult, error) {
	result := domain.MatchResult{}
	if text == "" {
		return result, nil
	}

	if !m.terms.CaseSensitive() {
		text = strings.ToLower(text)
	}

	for _, term := range m.terms.Terms() {
		var count int
		if m.wholeWord {
			re, err := m.wordPattern(term)
			if err != nil {
				return nil, err
			}
			count = len(re.FindAllStringIndex(text, -1))
		} else {
			count = strings.Count(text, term)
		}
		if count > 0 {
			result[term] = count
		}
	}
	return result, nil
}

// MatchRecord scans a record. The known text fields are concatenated in
// order, space separated; a record with no string-typed known fields is
// matched against its full serialization so behavior stays defined for
// any shape. It reports whether any term occurred.
func (m *Matcher) MatchRecord(record domain.Record) (bool, domain.MatchResult, error) {
	var b strings.Builder
	for _, field := range recordTextFields {
		if s, ok := record.StringField(field); ok {
			b.WriteString(s)
			b.WriteByte(' ')
		}
	}

	text := b.String()
	if text == "" {
		text = serializeRecord(record)
	}

	result, err := m.Match(text)
	if err != nil {
		return false, nil, err
	}
	return len(result) > 0, result, nil
}

// serializeRecord renders a record as text for the fallback match path.
func serializeRecord(record domain.Record) string {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(record))
	}
	return string(data)
}
