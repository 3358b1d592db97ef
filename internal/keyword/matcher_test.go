package keyword

import (
	"reflect"
	"testing"

	"parlwatch/internal/domain"
)

func newMatcher(t *testing.T, wholeWord bool, terms ...string) *Matcher {
	t.Helper()
	set := mustTermSet(t, 3, false)
	for _, term := range terms {
		set.Add(term)
	}
	return NewMatcher(set, wholeWord)
}

func TestMatch_CountsOccurrences(t *testing.T) {
	m := newMatcher(t, false, "fintech", "blockchain")

	result, err := m.Match("fintech is booming; FINTECH and blockchain both appear")
	if err != nil {
		t.Fatal(err)
	}
	want := domain.MatchResult{"fintech": 2, "blockchain": 1}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("expected %v, got %v", want, result)
	}
}

func TestMatch_OnlyPresentTermsAppear(t *testing.T) {
	m := newMatcher(t, false, "fintech", "crypto")

	result, err := m.Match("nothing relevant here")
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}

	// Every reported value is at least one.
	result, err = m.Match("crypto markets")
	if err != nil {
		t.Fatal(err)
	}
	for term, count := range result {
		if count < 1 {
			t.Errorf("term %s has count %d", term, count)
		}
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	m := newMatcher(t, false, "fintech")

	upper, err := m.Match("FinTech")
	if err != nil {
		t.Fatal(err)
	}
	lower, err := m.Match("fintech")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("case-insensitive match differs: %v vs %v", upper, lower)
	}
}

func TestMatch_WholeWordVsSubstring(t *testing.T) {
	substring := newMatcher(t, false, "fintech")
	wholeWord := newMatcher(t, true, "fintech")

	text := "fintechnology"

	result, err := substring.Match(text)
	if err != nil {
		t.Fatal(err)
	}
	if result["fintech"] != 1 {
		t.Errorf("substring mode expected 1 match, got %d", result["fintech"])
	}

	result, err = wholeWord.Match(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 0 {
		t.Errorf("whole-word mode expected no match inside a word, got %v", result)
	}

	result, err = wholeWord.Match("the fintech sector")
	if err != nil {
		t.Fatal(err)
	}
	if result["fintech"] != 1 {
		t.Errorf("whole-word mode expected 1 match, got %d", result["fintech"])
	}
}

func TestMatch_NonOverlappingCounts(t *testing.T) {
	m := newMatcher(t, false, "aaa")

	// Five a's hold one non-overlapping occurrence of "aaa", not three.
	result, err := m.Match("aaaaa")
	if err != nil {
		t.Fatal(err)
	}
	if result["aaa"] != 1 {
		t.Errorf("expected 1 non-overlapping match, got %d", result["aaa"])
	}
}

func TestMatch_MetacharactersAreLiteral(t *testing.T) {
	m := newMatcher(t, true, "web3.0")

	result, err := m.Match("the web3.0 agenda")
	if err != nil {
		t.Fatal(err)
	}
	if result["web3.0"] != 1 {
		t.Errorf("expected literal metacharacter match, got %v", result)
	}

	// The dot must not act as a regex wildcard.
	result, err = m.Match("the web3x0 agenda")
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 0 {
		t.Errorf("expected no match when the dot differs, got %v", result)
	}
}

func TestMatchRecord_FieldChain(t *testing.T) {
	m := newMatcher(t, false, "fintech")

	matched, result, err := m.MatchRecord(domain.Record{
		"title":   "Fintech growth",
		"content": "fintech is booming",
		"other":   "fintech ignored field",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected a match")
	}
	// Only title and content are in the field chain; "other" is not.
	if result["fintech"] != 2 {
		t.Errorf("expected 2 occurrences from title+content, got %d", result["fintech"])
	}
}

func TestMatchRecord_FallbackSerialization(t *testing.T) {
	m := newMatcher(t, false, "fintech")

	// No known text field is string-typed, so the whole record is
	// serialized and scanned.
	matched, result, err := m.MatchRecord(domain.Record{
		"code":  "fintech-42",
		"count": 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected fallback serialization to match")
	}
	if result["fintech"] != 1 {
		t.Errorf("expected 1 occurrence, got %d", result["fintech"])
	}
}

func TestMatchRecord_FieldOrderAndSeparator(t *testing.T) {
	// Terms must not match across the field boundary: fields are joined
	// with a space.
	m := newMatcher(t, false, "techno")

	matched, _, err := m.MatchRecord(domain.Record{
		"title":   "fintech",
		"content": "nostalgia",
	})
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Error("term must not span the field separator")
	}
}
