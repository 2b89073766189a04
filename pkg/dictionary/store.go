/*
Package dictionary implements the static word store behind the spell engine:
a patricia trie of valid words with frequency-tier weights, an exact
misspelling map, and ordered phonetic rewrite rules.

Everything here is loaded once at startup and immutable afterwards, so
lookups are safe under unsynchronized concurrent access.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Store holds the immutable word data the spell engine runs against.
type Store struct {
	trie    *patricia.Trie
	byLen   map[int][]string
	count   int
	minLen  int
	maxLen  int
	missMap map[string]string
}

// New builds a Store from an explicit word list. Words are lowercased and
// non-alphabetic entries dropped. Known misspellings are removed from the
// set so a contaminated source cannot mask a correction.
func New(words []string) *Store {
	s := &Store{
		trie:    patricia.NewTrie(),
		byLen:   make(map[int][]string),
		missMap: commonMisspellings,
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !isAlphaLower(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if _, bad := s.missMap[w]; bad {
			continue
		}
		seen[w] = struct{}{}
		s.insert(w)
	}
	log.Debugf("Dictionary loaded: %d words, lengths %d..%d", s.count, s.minLen, s.maxLen)
	return s
}

// NewBuiltin builds a Store from the embedded fallback word list.
func NewBuiltin() *Store {
	return New(builtinWords)
}

// Load reads a one-word-per-line list from path. On any read failure the
// builtin list is used instead so the engine always has a dictionary.
func Load(path string) (*Store, error) {
	if path == "" {
		return NewBuiltin(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("Dictionary file %s unavailable, using builtin list: %v", path, err)
		return NewBuiltin(), fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Warnf("Dictionary file %s unreadable, using builtin list: %v", path, err)
		return NewBuiltin(), fmt.Errorf("read dictionary: %w", err)
	}
	return New(words), nil
}

func (s *Store) insert(w string) {
	s.trie.Insert(patricia.Prefix(w), tierWeight(w))
	n := len(w)
	s.byLen[n] = append(s.byLen[n], w)
	if s.count == 0 || n < s.minLen {
		s.minLen = n
	}
	if n > s.maxLen {
		s.maxLen = n
	}
	s.count++
}

// Contains reports whether word (any case) is a valid dictionary word.
func (s *Store) Contains(word string) bool {
	return s.trie.Get(patricia.Prefix(strings.ToLower(word))) != nil
}

// Weight returns the frequency-tier weight for word, 1.0 outside every tier.
func (s *Store) Weight(word string) float64 {
	if v := s.trie.Get(patricia.Prefix(strings.ToLower(word))); v != nil {
		return v.(float64)
	}
	return DefaultWeight
}

// Misspelling returns the canonical correction for a known misspelling.
func (s *Store) Misspelling(word string) (string, bool) {
	fix, ok := s.missMap[strings.ToLower(word)]
	return fix, ok
}

// ApplyPhonetic runs the ordered rewrite rules over word and returns the
// result. The caller decides whether the rewrite is worth anything (it only
// counts if the rewritten form is a valid dictionary word).
func (s *Store) ApplyPhonetic(word string) string {
	out := strings.ToLower(word)
	for _, rule := range phoneticRules {
		out = rule.Pattern.ReplaceAllString(out, rule.Replacement)
	}
	return out
}

// VisitLengthRange calls fn for every dictionary word whose length is within
// [lo, hi]. Used by the candidate generator to bound edit-distance work.
func (s *Store) VisitLengthRange(lo, hi int, fn func(word string, weight float64)) {
	if lo < s.minLen {
		lo = s.minLen
	}
	if hi > s.maxLen {
		hi = s.maxLen
	}
	for n := lo; n <= hi; n++ {
		for _, w := range s.byLen[n] {
			fn(w, s.Weight(w))
		}
	}
}

// VisitPrefix calls fn for every dictionary word starting with prefix.
func (s *Store) VisitPrefix(prefix string, fn func(word string, weight float64)) {
	_ = s.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(p patricia.Prefix, item patricia.Item) error {
		fn(string(p), item.(float64))
		return nil
	})
}

// Len returns the number of words in the store.
func (s *Store) Len() int {
	return s.count
}

var tierWeights = func() map[string]float64 {
	m := make(map[string]float64)
	for _, tier := range frequencyTiers {
		for _, w := range tier.words {
			m[w] = tier.weight
		}
	}
	return m
}()

func tierWeight(word string) float64 {
	if w, ok := tierWeights[word]; ok {
		return w
	}
	return DefaultWeight
}
