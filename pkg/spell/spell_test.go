package spell

import (
	"fmt"
	"testing"

	"github.com/correctserve/correctserve/pkg/dictionary"
)

// check if our distance impl returns correct values
func TestDistance(t *testing.T) {
	testCases := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "ab", 2},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"receive", "recieve", 2},
		{"their", "thier", 2},
		{"book", "books", 1},
		{"word", "word", 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			if dist := Distance(tc.a, tc.b); dist != tc.expected {
				t.Errorf("Expected distance %d, got %d", tc.expected, dist)
			}
		})
	}
}

// metric properties: symmetry, identity, triangle inequality
func TestDistanceIsMetric(t *testing.T) {
	words := []string{"", "a", "cat", "cart", "chart", "smart", "banana"}

	for _, a := range words {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", a, a, d)
		}
		for _, b := range words {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance not symmetric for %q, %q", a, b)
			}
			for _, c := range words {
				if Distance(a, c) > Distance(a, b)+Distance(b, c) {
					t.Errorf("Triangle inequality violated for %q, %q, %q", a, b, c)
				}
			}
		}
	}
}

func TestValidWordIsReturnedAsIs(t *testing.T) {
	checker := NewChecker(dictionary.NewBuiltin(), 2)

	got := checker.Corrections("receive", nil, 5)
	if len(got) != 1 || got[0].Text != "receive" || got[0].Confidence != 1.0 {
		t.Errorf("Expected [(receive, 1.0)], got %v", got)
	}
}

// the misspelling map must win even when the raw word list contains the typo
func TestMisspellingWinsOverDictionary(t *testing.T) {
	store := dictionary.New([]string{"their", "thier", "there"})
	checker := NewChecker(store, 2)

	got := checker.Corrections("thier", nil, 5)
	if len(got) != 1 {
		t.Fatalf("Expected a single suggestion, got %d", len(got))
	}
	if got[0].Text != "their" || got[0].Confidence != 0.95 {
		t.Errorf("Expected (their, 0.95), got (%s, %v)", got[0].Text, got[0].Confidence)
	}
}

func TestNoCorrectionIsSignalNotError(t *testing.T) {
	store := dictionary.New([]string{"completely", "unrelated", "vocabulary"})
	checker := NewChecker(store, 2)

	got := checker.Corrections("zzzzqq", nil, 5)
	if len(got) != 1 || got[0].Text != "zzzzqq" || got[0].Confidence != 0.0 {
		t.Errorf("Expected [(zzzzqq, 0.0)], got %v", got)
	}
}

// phonetic rewrite is the last resort, only after edit distance finds nothing
func TestPhoneticFallback(t *testing.T) {
	store := dictionary.New([]string{"message", "people"})
	checker := NewChecker(store, 2)

	got := checker.Corrections("msg", nil, 5)
	if len(got) != 1 || got[0].Text != "message" || got[0].Confidence != 0.85 {
		t.Errorf("Expected [(message, 0.85)], got %v", got)
	}
}

func TestCandidateScoring(t *testing.T) {
	// "the" and "that" are tier-1 (weight 10), "than" is tier-4 (1.5).
	store := dictionary.New([]string{"the", "that", "than"})
	checker := NewChecker(store, 2)

	got := checker.Corrections("tht", nil, 5)
	if len(got) != 3 {
		t.Fatalf("Expected 3 candidates, got %d: %v", len(got), got)
	}
	if got[0].Text != "the" {
		t.Errorf("Expected top candidate 'the', got %q", got[0].Text)
	}
	// distance 1, weight 10: 0.7*(1/2) + 0.3*1.0
	if diff := got[0].Confidence - 0.65; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected composite score 0.65, got %v", got[0].Confidence)
	}
	if got[2].Text != "than" {
		t.Errorf("Expected 'than' ranked last, got %q", got[2].Text)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("Suggestions not sorted descending at %d", i)
		}
	}
}

func TestMaxSuggestionsTruncation(t *testing.T) {
	store := dictionary.New([]string{"the", "that", "than", "then", "they"})
	checker := NewChecker(store, 2)

	got := checker.Corrections("thn", nil, 2)
	if len(got) != 2 {
		t.Errorf("Expected 2 suggestions, got %d", len(got))
	}
}

// single-token corrections inherit a leading capital; compound fixes don't
func TestCasePolicy(t *testing.T) {
	checker := NewChecker(dictionary.NewBuiltin(), 2)

	got := checker.Corrections("Recieve", nil, 1)
	if got[0].Text != "Receive" {
		t.Errorf("Expected 'Receive', got %q", got[0].Text)
	}

	got = checker.Corrections("Alot", nil, 1)
	if got[0].Text != "a lot" {
		t.Errorf("Multi-token correction should keep canonical casing, got %q", got[0].Text)
	}
}

func TestCandidatesBoundedByDistance(t *testing.T) {
	checker := NewChecker(dictionary.NewBuiltin(), 2)

	for _, cand := range checker.Candidates("recieve") {
		if cand.EditDistance < 1 || cand.EditDistance > 2 {
			t.Errorf("Candidate %q has distance %d outside (0, 2]", cand.Text, cand.EditDistance)
		}
	}
}

func BenchmarkCorrections(b *testing.B) {
	checker := NewChecker(dictionary.NewBuiltin(), 2)
	inputs := []string{"recieve", "teh", "pakcage", "definately", "wrok"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		checker.Corrections(inputs[i%len(inputs)], nil, 5)
	}
}
