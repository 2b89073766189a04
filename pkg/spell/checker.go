/*
Package spell implements word-level correction: bounded edit-distance
candidate generation over the dictionary and the confidence-scored
suggestion engine on top of it.

Preference order: exact misspelling fix > dictionary validity > scored
edit-distance candidates > phonetic rewrite > give up with confidence 0.
*/
package spell

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/correctserve/correctserve/internal/textutil"
	"github.com/correctserve/correctserve/pkg/dictionary"
)

// Scoring trades closeness against commonness. The weights are deliberate:
// a distance-1 candidate in no tier still beats a distance-2 tier-1 word.
const (
	distanceWeight  = 0.7
	frequencyWeight = 0.3

	// maxCandidates caps how many distance-sorted candidates get scored.
	maxCandidates = 20

	misspellingConfidence = 0.95
	phoneticConfidence    = 0.85
)

// Candidate is a dictionary word within edit distance of the input.
type Candidate struct {
	Text            string
	EditDistance    int
	FrequencyWeight float64
	Score           float64
}

// Suggestion is a scored correction for a single word.
type Suggestion struct {
	Text       string
	Confidence float64
}

// Checker is the word-level spell engine. Immutable after construction.
type Checker struct {
	dict        *dictionary.Store
	maxDistance int
}

// NewChecker builds a Checker over dict. maxDistance bounds the candidate
// search; values below 1 fall back to 2.
func NewChecker(dict *dictionary.Store, maxDistance int) *Checker {
	if maxDistance < 1 {
		maxDistance = 2
	}
	return &Checker{dict: dict, maxDistance: maxDistance}
}

// Candidates returns dictionary words with 0 < distance <= maxDistance from
// word, scored and sorted by composite score descending. The dictionary is
// prefiltered by length so most entries never reach the DP.
func (c *Checker) Candidates(word string) []Candidate {
	lower := strings.ToLower(word)
	n := len([]rune(lower))

	var found []Candidate
	c.dict.VisitLengthRange(n-c.maxDistance, n+c.maxDistance, func(entry string, weight float64) {
		d := Distance(lower, entry)
		if d > 0 && d <= c.maxDistance {
			found = append(found, Candidate{Text: entry, EditDistance: d, FrequencyWeight: weight})
		}
	})

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].EditDistance < found[j].EditDistance
	})
	if len(found) > maxCandidates {
		found = found[:maxCandidates]
	}

	for i := range found {
		found[i].Score = score(found[i].EditDistance, found[i].FrequencyWeight)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Score > found[j].Score
	})
	return found
}

func score(distance int, weight float64) float64 {
	editScore := 1.0 / float64(distance+1)
	freqScore := weight / 10.0
	if freqScore > 1.0 {
		freqScore = 1.0
	}
	return distanceWeight*editScore + frequencyWeight*freqScore
}

// Corrections returns up to maxSuggestions scored corrections for word.
// A lone (word, 0.0) suggestion means nothing was found; it is a signal,
// not an error. Multi-token corrections (from the misspelling map) are
// returned as-is and never case-adjusted; the caller expands them.
func (c *Checker) Corrections(word string, context []string, maxSuggestions int) []Suggestion {
	_ = context // reserved for context-aware reranking upstream
	if maxSuggestions < 1 {
		maxSuggestions = 1
	}
	lower := strings.ToLower(word)

	// Misspelling map wins over dictionary validity: some word lists ship
	// with typos in them.
	if fix, ok := c.dict.Misspelling(lower); ok {
		return []Suggestion{{Text: c.recase(word, fix), Confidence: misspellingConfidence}}
	}

	if c.dict.Contains(lower) {
		return []Suggestion{{Text: word, Confidence: 1.0}}
	}

	candidates := c.Candidates(lower)
	if len(candidates) == 0 {
		rewritten := c.dict.ApplyPhonetic(lower)
		if rewritten != lower && c.dict.Contains(rewritten) {
			log.Debugf("Phonetic rewrite %q -> %q", lower, rewritten)
			return []Suggestion{{Text: c.recase(word, rewritten), Confidence: phoneticConfidence}}
		}
		return []Suggestion{{Text: word, Confidence: 0.0}}
	}

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]Suggestion, len(candidates))
	for i, cand := range candidates {
		out[i] = Suggestion{Text: c.recase(word, cand.Text), Confidence: cand.Score}
	}
	return out
}

// recase capitalizes a single-token correction when the original word began
// uppercase. Multi-token corrections keep their canonical casing.
func (c *Checker) recase(original, correction string) string {
	if strings.Contains(correction, " ") {
		return correction
	}
	if textutil.StartsUpper(original) {
		return textutil.Capitalize(correction)
	}
	return correction
}
