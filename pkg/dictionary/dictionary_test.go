package dictionary

import (
	"testing"
)

func TestMisspellingsExcludedFromWordSet(t *testing.T) {
	// "thier" is a known misspelling and must never count as a valid word,
	// even when the source list ships it.
	store := New([]string{"their", "thier", "there"})

	if store.Contains("thier") {
		t.Error("Misspelling 'thier' should not be a valid dictionary word")
	}
	if !store.Contains("their") {
		t.Error("Expected 'their' to be a valid dictionary word")
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 words, got %d", store.Len())
	}
}

func TestNewNormalizesAndFilters(t *testing.T) {
	store := New([]string{"Hello", "  world  ", "it's", "123", "hello"})

	if !store.Contains("hello") || !store.Contains("world") {
		t.Error("Expected lowercased 'hello' and 'world' in the store")
	}
	if store.Contains("it's") || store.Contains("123") {
		t.Error("Non-alphabetic entries should be dropped")
	}
	if store.Len() != 2 {
		t.Errorf("Expected duplicates collapsed to 2 words, got %d", store.Len())
	}
}

func TestTierWeights(t *testing.T) {
	store := NewBuiltin()

	testCases := []struct {
		word     string
		expected float64
	}{
		{"the", tier1Weight},
		{"their", tier2Weight},
		{"which", tier3Weight},
		{"people", tier4Weight},
		{"receive", DefaultWeight},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			if w := store.Weight(tc.word); w != tc.expected {
				t.Errorf("Weight(%q) = %v, want %v", tc.word, w, tc.expected)
			}
		})
	}
}

func TestMisspellingLookupIsCaseInsensitive(t *testing.T) {
	store := NewBuiltin()

	fix, ok := store.Misspelling("TEH")
	if !ok || fix != "the" {
		t.Errorf("Misspelling(\"TEH\") = (%q, %v), want (\"the\", true)", fix, ok)
	}
	if _, ok := store.Misspelling("the"); ok {
		t.Error("A valid word should not resolve as a misspelling")
	}
}

func TestApplyPhonetic(t *testing.T) {
	store := NewBuiltin()

	testCases := []struct {
		in       string
		expected string
	}{
		{"nite", "night"},
		{"msg", "message"},
		{"ppl", "people"},
		{"thx", "thanks"},
		{"hello", "hello"}, // no rule applies
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := store.ApplyPhonetic(tc.in); got != tc.expected {
				t.Errorf("ApplyPhonetic(%q) = %q, want %q", tc.in, got, tc.expected)
			}
		})
	}
}

func TestVisitLengthRange(t *testing.T) {
	store := New([]string{"go", "tree", "banana", "sequoia"})

	var visited []string
	store.VisitLengthRange(2, 4, func(word string, weight float64) {
		visited = append(visited, word)
	})

	if len(visited) != 2 {
		t.Fatalf("Expected 2 words in length range [2, 4], got %v", visited)
	}
	for _, w := range visited {
		if len(w) < 2 || len(w) > 4 {
			t.Errorf("Visited word %q outside requested length range", w)
		}
	}
}

func TestVisitPrefix(t *testing.T) {
	store := New([]string{"tree", "trend", "banana"})

	var visited []string
	store.VisitPrefix("tre", func(word string, weight float64) {
		visited = append(visited, word)
	})

	if len(visited) != 2 {
		t.Errorf("Expected 2 words with prefix 'tre', got %v", visited)
	}
}

func TestLoadFallsBackToBuiltin(t *testing.T) {
	store, err := Load("/nonexistent/words.txt")
	if err == nil {
		t.Error("Expected an error for a missing word list")
	}
	if store == nil || store.Len() == 0 {
		t.Fatal("Expected the builtin list as fallback, got an empty store")
	}
	if !store.Contains("the") {
		t.Error("Fallback store should carry the builtin vocabulary")
	}
}

func TestLoadEmptyPathUsesBuiltin(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Errorf("Empty path should not be an error, got %v", err)
	}
	if store.Len() == 0 {
		t.Error("Expected the builtin list for an empty path")
	}
}
