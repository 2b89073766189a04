/*
Package ngram implements the order 1..4 statistical language model used for
context ranking: additive-smoothing conditional probabilities with
context-driven order backoff.

The model is trained offline (see the -train flag on the server binary) and
read-only while serving, so probability lookups need no locking.
*/
package ngram

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultSmoothing is the additive (Laplace) smoothing constant. It is also
// the flat probability an untrained model reports for every query.
const DefaultSmoothing = 0.01

// MaxOrder caps the model order; anything above is clamped.
const MaxOrder = 4

// unigramFallbackSize is how many of the most frequent unigrams back the
// next-word prediction when no observed context matches.
const unigramFallbackSize = 100

// Prediction pairs a word with its conditional probability.
type Prediction struct {
	Word        string
	Probability float64
}

// Model holds the per-order count tables. Context keys for orders 3 and 4
// are the preceding tokens joined with a single space; tokens are lowercase
// alphabetic so the separator is unambiguous.
type Model struct {
	order      int
	unigrams   map[string]int
	bigrams    map[string]map[string]int
	trigrams   map[string]map[string]int
	fourgrams  map[string]map[string]int
	vocab      map[string]struct{}
	totalWords int
	trained    bool
}

// New creates an untrained model of the given order (clamped to 1..4).
func New(order int) *Model {
	if order < 1 {
		order = 1
	}
	if order > MaxOrder {
		order = MaxOrder
	}
	return &Model{
		order:     order,
		unigrams:  make(map[string]int),
		bigrams:   make(map[string]map[string]int),
		trigrams:  make(map[string]map[string]int),
		fourgrams: make(map[string]map[string]int),
		vocab:     make(map[string]struct{}),
	}
}

// Order returns the model order.
func (m *Model) Order() int { return m.order }

// Trained reports whether the model carries usable counts.
func (m *Model) Trained() bool { return m.trained }

// VocabSize returns the vocabulary size after training.
func (m *Model) VocabSize() int { return len(m.vocab) }

// TotalWords returns how many tokens went into training.
func (m *Model) TotalWords() int { return m.totalWords }

var tokenRe = regexp.MustCompile(`[a-z]+`)

// Tokenize lowercases text and splits it into alphabetic tokens; every
// non-letter character acts as a separator.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Train accumulates sliding-window counts for every order up to the model
// order, then prunes entries seen fewer than minCount times at every table.
// Pruning bounds memory and drops corpus noise.
func (m *Model) Train(texts []string, minCount int) {
	for _, text := range texts {
		m.addTokens(Tokenize(text))
	}
	if minCount > 1 {
		m.prune(minCount)
	}
	m.trained = true
	log.Debugf("Trained %d-gram model: %d tokens, vocabulary %d", m.order, m.totalWords, len(m.vocab))
}

func (m *Model) addTokens(tokens []string) {
	for i, tok := range tokens {
		m.vocab[tok] = struct{}{}
		m.unigrams[tok]++
		m.totalWords++

		if i > 0 && m.order >= 2 {
			bump(m.bigrams, tokens[i-1], tok)
		}
		if i > 1 && m.order >= 3 {
			bump(m.trigrams, contextKey(tokens[i-2:i]), tok)
		}
		if i > 2 && m.order >= 4 {
			bump(m.fourgrams, contextKey(tokens[i-3:i]), tok)
		}
	}
}

func bump(table map[string]map[string]int, ctx, word string) {
	next := table[ctx]
	if next == nil {
		next = make(map[string]int)
		table[ctx] = next
	}
	next[word]++
}

func (m *Model) prune(minCount int) {
	for w, c := range m.unigrams {
		if c < minCount {
			delete(m.unigrams, w)
		}
	}
	pruneTable(m.bigrams, minCount)
	pruneTable(m.trigrams, minCount)
	pruneTable(m.fourgrams, minCount)
}

func pruneTable(table map[string]map[string]int, minCount int) {
	for ctx, next := range table {
		for w, c := range next {
			if c < minCount {
				delete(next, w)
			}
		}
		if len(next) == 0 {
			delete(table, ctx)
		}
	}
}

func contextKey(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Probability returns P(word | context) with additive smoothing. Backoff
// walks the order index down (4 -> 3 -> 2 -> 1) and stops at the first
// order whose conditioning context has a nonzero total count. The target
// n-gram's own count being zero does NOT trigger backoff: an unseen
// continuation under a well-observed context is priced by smoothing at
// that order, not discounted to a lower one. An untrained model returns
// the flat smoothing constant.
func (m *Model) Probability(word string, context []string, smoothing float64) float64 {
	if !m.trained {
		return smoothing
	}

	word = strings.ToLower(word)
	ctx := normalizeContext(context)

	ord := len(ctx) + 1
	if ord > m.order {
		ord = m.order
	}
	vocabTerm := float64(len(m.vocab)) * smoothing

	for ; ord > 1; ord-- {
		tail := ctx[len(ctx)-(ord-1):]
		ctxCount := m.contextCount(tail)
		if ctxCount == 0 {
			continue
		}
		seen := m.continuationCount(tail, word)
		return (float64(seen) + smoothing) / (float64(ctxCount) + vocabTerm)
	}

	return (float64(m.unigrams[word]) + smoothing) / (float64(m.totalWords) + vocabTerm)
}

// contextCount is the total evidence for a conditioning context: how often
// the full context sequence itself was observed.
func (m *Model) contextCount(tail []string) int {
	switch len(tail) {
	case 3:
		return m.trigrams[contextKey(tail[:2])][tail[2]]
	case 2:
		return m.bigrams[tail[0]][tail[1]]
	case 1:
		return m.unigrams[tail[0]]
	}
	return 0
}

func (m *Model) continuationCount(tail []string, word string) int {
	switch len(tail) {
	case 3:
		return m.fourgrams[contextKey(tail)][word]
	case 2:
		return m.trigrams[contextKey(tail)][word]
	case 1:
		return m.bigrams[tail[0]][word]
	}
	return 0
}

func normalizeContext(context []string) []string {
	out := make([]string, 0, len(context))
	for _, w := range context {
		if w == "" {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

// RankCandidates scores each candidate against the context and returns the
// topK highest, stable-sorted descending. Output is deterministic for
// identical model state and input order.
func (m *Model) RankCandidates(candidates []string, context []string, topK int) []Prediction {
	scored := make([]Prediction, len(candidates))
	for i, w := range candidates {
		scored[i] = Prediction{Word: w, Probability: m.Probability(w, context, DefaultSmoothing)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Probability > scored[j].Probability
	})
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// NextWordPredictions returns the topK most likely continuations of the
// context. Candidates come from every order whose context length fits, not
// just the highest, to maximize recall; with no observed continuation at
// all, the most frequent unigrams stand in.
func (m *Model) NextWordPredictions(context []string, topK int) []Prediction {
	ctx := normalizeContext(context)
	candidates := make(map[string]struct{})

	if len(ctx) >= 3 && m.order >= 4 {
		for w := range m.fourgrams[contextKey(ctx[len(ctx)-3:])] {
			candidates[w] = struct{}{}
		}
	}
	if len(ctx) >= 2 && m.order >= 3 {
		for w := range m.trigrams[contextKey(ctx[len(ctx)-2:])] {
			candidates[w] = struct{}{}
		}
	}
	if len(ctx) >= 1 && m.order >= 2 {
		for w := range m.bigrams[ctx[len(ctx)-1]] {
			candidates[w] = struct{}{}
		}
	}

	var words []string
	if len(candidates) == 0 {
		words = m.topUnigrams(unigramFallbackSize)
	} else {
		words = make([]string, 0, len(candidates))
		for w := range candidates {
			words = append(words, w)
		}
		// Map iteration order is random; fix it so ranking ties break
		// the same way every call.
		sort.Strings(words)
	}

	return m.RankCandidates(words, ctx, topK)
}

func (m *Model) topUnigrams(n int) []string {
	words := make([]string, 0, len(m.unigrams))
	for w := range m.unigrams {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if m.unigrams[words[i]] != m.unigrams[words[j]] {
			return m.unigrams[words[i]] > m.unigrams[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
