package keyword

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func mustTermSet(t *testing.T, minLength int, caseSensitive bool) *TermSet {
	t.Helper()
	s, err := NewTermSet(minLength, caseSensitive)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewTermSet_InvalidMinLength(t *testing.T) {
	if _, err := NewTermSet(0, false); err == nil {
		t.Error("expected error for min length 0")
	}
	if _, err := NewTermSet(-3, false); err == nil {
		t.Error("expected error for negative min length")
	}
}

func TestTermSet_AddNormalizes(t *testing.T) {
	s := mustTermSet(t, 3, false)

	if !s.Add("  FinTech  ") {
		t.Fatal("expected add to succeed")
	}
	if !s.Contains("fintech") {
		t.Error("expected normalized term to be present")
	}
	if !s.Contains("FINTECH") {
		t.Error("expected lookup to normalize too")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 term, got %d", s.Len())
	}
}

func TestTermSet_RejectsShortTerms(t *testing.T) {
	s := mustTermSet(t, 3, false)

	for _, raw := range []string{"", "a", "ab", "  ab  "} {
		if s.Add(raw) {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty set, got %d terms", s.Len())
	}
}

func TestTermSet_CaseSensitiveMode(t *testing.T) {
	s := mustTermSet(t, 3, true)

	s.Add("FinTech")
	if !s.Contains("FinTech") {
		t.Error("expected exact-case term present")
	}
	if s.Contains("fintech") {
		t.Error("expected lowercase lookup to miss in case-sensitive mode")
	}
}

func TestTermSet_AddRemoveIdempotent(t *testing.T) {
	s := mustTermSet(t, 3, false)

	if !s.Add("fintech") {
		t.Fatal("first add should grow the set")
	}
	if s.Add("fintech") {
		t.Error("duplicate add should be a no-op")
	}
	if s.Add("FINTECH") {
		t.Error("duplicate add via different case should be a no-op")
	}

	if !s.Remove("fintech") {
		t.Error("remove of present term should succeed")
	}
	if s.Remove("fintech") {
		t.Error("remove of absent term should be a no-op")
	}
}

func TestTermSet_IterationOrderIsInsertionOrder(t *testing.T) {
	s := mustTermSet(t, 3, false)
	for _, term := range []string{"zeta", "alpha", "mid"} {
		s.Add(term)
	}

	want := []string{"zeta", "alpha", "mid"}
	if got := s.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Removal keeps the relative order of the survivors.
	s.Remove("alpha")
	want = []string{"zeta", "mid"}
	if got := s.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("after removal expected %v, got %v", want, got)
	}
	if s.Position("zeta") != 0 || s.Position("mid") != 1 {
		t.Error("positions not reindexed after removal")
	}
}

func TestTermSet_Read(t *testing.T) {
	s := mustTermSet(t, 3, false)

	input := "fintech\n\n  Blockchain  \nab\ncrypto\n"
	added, err := s.Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if added != 3 {
		t.Errorf("expected 3 terms added, got %d", added)
	}

	want := []string{"fintech", "blockchain", "crypto"}
	if got := s.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTermSet_SaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")

	s := mustTermSet(t, 3, false)
	s.Add("fintech")
	s.Add("blockchain")
	if err := s.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	loaded := mustTermSet(t, 3, false)
	if _, err := loaded.LoadFile(path); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Terms(), s.Terms()) {
		t.Errorf("expected %v, got %v", s.Terms(), loaded.Terms())
	}
}
