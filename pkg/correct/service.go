/*
Package correct implements the correction orchestrator: a mode-driven
strategy that fuses spell-engine, neural and n-gram signals into one
ranked, confidence-gated result.

The service holds only immutable collaborators after construction; request
counters are deliberately best-effort and may undercount under races.
*/
package correct

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/correctserve/correctserve/internal/textutil"
	"github.com/correctserve/correctserve/pkg/cache"
	"github.com/correctserve/correctserve/pkg/ngram"
	"github.com/correctserve/correctserve/pkg/neural"
	"github.com/correctserve/correctserve/pkg/spell"
)

// Mode selects the correction strategy.
type Mode string

const (
	// ModeAuto spell-corrects token by token, then lets the neural model
	// rewrite multi-word input.
	ModeAuto Mode = "auto"
	// ModeSuggestions returns a ranked pool of candidates instead of a
	// single rewrite.
	ModeSuggestions Mode = "suggestions"
	// ModeGrammar delegates entirely to the neural model.
	ModeGrammar Mode = "grammar"
)

// cacheTag names the fused pipeline in cache keys, keeping fused results
// distinct from any per-model caching a deployment might add.
const cacheTag = "combined"

// Confidence levels for spell-only outcomes.
const (
	spellChangedConfidence  = 0.9
	neuralFailedConfidence  = 0.8
	ngramBlendSignalWeight  = 0.7
	ngramBlendContextWeight = 0.3
)

// Request is one correction call.
type Request struct {
	Text           string
	Context        []string
	Mode           Mode
	MaxSuggestions int
	UseNeural      bool
	UseCache       bool
}

// Suggestion is one scored candidate in a Result.
type Suggestion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// Result is the orchestrator's answer.
type Result struct {
	Original     string       `json:"original"`
	Corrected    string       `json:"corrected"`
	Suggestions  []Suggestion `json:"suggestions"`
	Confidence   float64      `json:"confidence"`
	Cached       bool         `json:"cached"`
	ChangesMade  bool         `json:"changes_made"`
	ProcessingMs float64      `json:"time_ms"`
}

// Options bound per-request values and the gating threshold.
type Options struct {
	MinConfidence      float64
	DefaultSuggestions int
	MaxSuggestions     int
}

// Service fuses the three signal sources. All collaborators except the
// cache may be nil; a nil collaborator is simply an unavailable one.
type Service struct {
	spell  *spell.Checker
	model  *ngram.Model
	neural neural.Corrector
	cache  *cache.Cache
	opts   Options

	// Best-effort counters: reads and writes race harmlessly.
	totalRequests  int64
	totalElapsedMs float64
}

// NewService wires the orchestrator. model, corrector and resultCache may
// each be nil to run without that signal.
func NewService(checker *spell.Checker, model *ngram.Model, corrector neural.Corrector, resultCache *cache.Cache, opts Options) *Service {
	if opts.DefaultSuggestions < 1 {
		opts.DefaultSuggestions = 3
	}
	if opts.MaxSuggestions < 1 || opts.MaxSuggestions > 10 {
		opts.MaxSuggestions = 10
	}
	return &Service{spell: checker, model: model, neural: corrector, cache: resultCache, opts: opts}
}

// Correct runs one request through cache, strategy and gating. It never
// returns an error: degraded collaborators lower confidence instead.
func (s *Service) Correct(ctx context.Context, req Request) Result {
	start := time.Now()
	text := strings.TrimSpace(req.Text)
	maxSuggestions := s.clampSuggestions(req.MaxSuggestions)

	if req.UseCache && s.cache != nil {
		if entry, ok := s.cache.Get(ctx, text, req.Context, cacheTag); ok {
			res := Result{
				Original:    text,
				Corrected:   entry.Text,
				Suggestions: []Suggestion{{Text: entry.Text, Confidence: entry.Confidence, Source: "cache"}},
				Confidence:  entry.Confidence,
				Cached:      true,
				ChangesMade: text != entry.Text,
			}
			return s.finish(res, start)
		}
	}

	var res Result
	switch req.Mode {
	case ModeGrammar:
		res = s.correctGrammar(ctx, text)
	case ModeSuggestions:
		res = s.generateSuggestions(ctx, text, req.Context, maxSuggestions)
	default:
		res = s.autoCorrect(ctx, text, req)
	}

	res = s.gate(res)

	if req.UseCache && s.cache != nil && len(res.Suggestions) > 0 {
		top := res.Suggestions[0]
		s.cache.Set(ctx, text, req.Context, cacheTag, cache.Entry{Text: top.Text, Confidence: top.Confidence})
	}
	return s.finish(res, start)
}

// autoCorrect runs the spell engine token by token, then hands multi-word
// input to the neural model. Tokens shorter than 2 runes, without letters,
// or fully uppercase (acronyms) pass through untouched.
func (s *Service) autoCorrect(ctx context.Context, text string, req Request) Result {
	if text == "" {
		return originalResult(text)
	}

	words := strings.Fields(text)
	corrected := make([]string, 0, len(words))
	anyChanged := false

	for _, word := range words {
		replacement, changed := s.correctWord(word, req.Context)
		if changed {
			anyChanged = true
			// Compound fixes like "alot" -> "a lot" expand inline.
			corrected = append(corrected, strings.Fields(replacement)...)
		} else {
			corrected = append(corrected, word)
		}
	}
	spellCorrected := strings.Join(corrected, " ")

	singleWord := len(words) == 1
	if req.UseNeural && s.neural != nil && !singleWord {
		rewritten, confidence, err := s.neural.CorrectGrammar(ctx, spellCorrected)
		if err == nil {
			return Result{
				Original:    text,
				Corrected:   rewritten,
				Suggestions: []Suggestion{{Text: rewritten, Confidence: confidence, Source: "neural"}},
				Confidence:  confidence,
				ChangesMade: text != rewritten,
			}
		}
		log.Warnf("Neural correction failed, keeping spell result: %v", err)
		confidence = 1.0
		if anyChanged {
			confidence = neuralFailedConfidence
		}
		return spellResult(text, spellCorrected, confidence)
	}

	confidence := 1.0
	if anyChanged {
		confidence = spellChangedConfidence
	}
	return spellResult(text, spellCorrected, confidence)
}

// correctWord returns the accepted replacement for one token. A panic while
// scoring a token must not abort the request; that token passes through.
func (s *Service) correctWord(word string, contextWords []string) (replacement string, changed bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Scoring token %q panicked, passing it through: %v", word, r)
			replacement, changed = word, false
		}
	}()

	if len([]rune(word)) < 2 || !textutil.HasLetter(word) {
		return word, false
	}
	if textutil.IsAllUpper(word) {
		return word, false
	}

	suggestions := s.spell.Corrections(word, contextWords, 1)
	if len(suggestions) == 0 {
		return word, false
	}
	top := suggestions[0]
	if top.Confidence <= 0 || strings.EqualFold(top.Text, word) {
		return word, false
	}
	return top.Text, true
}

// correctGrammar delegates to the neural model; without one the original
// text comes back with zero confidence.
func (s *Service) correctGrammar(ctx context.Context, text string) Result {
	if s.neural == nil {
		log.Warn("Grammar mode requested but no neural corrector is configured")
		return noneResult(text)
	}
	rewritten, confidence, err := s.neural.CorrectGrammar(ctx, text)
	if err != nil {
		log.Warnf("Grammar correction failed: %v", err)
		return noneResult(text)
	}
	return Result{
		Original:    text,
		Corrected:   rewritten,
		Suggestions: []Suggestion{{Text: rewritten, Confidence: confidence, Source: "neural"}},
		Confidence:  confidence,
		ChangesMade: text != rewritten,
	}
}

// generateSuggestions pools spell candidates (single-word input only) with
// neural alternatives, optionally reweighted by n-gram context.
func (s *Service) generateSuggestions(ctx context.Context, text string, contextWords []string, maxSuggestions int) Result {
	var pool []Suggestion

	if len(strings.Fields(text)) == 1 {
		for _, sug := range s.spell.Corrections(text, contextWords, maxSuggestions) {
			pool = append(pool, Suggestion{Text: sug.Text, Confidence: sug.Confidence, Source: "spell"})
		}
	}

	if s.neural != nil {
		alts, err := s.neural.CorrectWithAlternatives(ctx, text, maxSuggestions)
		if err != nil {
			log.Warnf("Neural alternatives failed: %v", err)
		}
		for _, alt := range alts {
			if containsText(pool, alt.Text) {
				continue
			}
			pool = append(pool, Suggestion{Text: alt.Text, Confidence: alt.Confidence, Source: "neural"})
		}
	}

	// Context reranking only makes sense with a trained model and actual
	// context; the blend keeps the source signal dominant.
	if s.model != nil && s.model.Trained() && len(contextWords) > 0 {
		candidates := make([]string, len(pool))
		for i, sug := range pool {
			candidates[i] = sug.Text
		}
		for _, ranked := range s.model.RankCandidates(candidates, contextWords, maxSuggestions) {
			for i := range pool {
				if pool[i].Text == ranked.Word {
					pool[i].Confidence = ngramBlendSignalWeight*pool[i].Confidence + ngramBlendContextWeight*ranked.Probability
					pool[i].Source += "+ngram"
					break
				}
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Confidence > pool[j].Confidence
	})
	if len(pool) > maxSuggestions {
		pool = pool[:maxSuggestions]
	}

	if len(pool) == 0 {
		return originalResult(text)
	}
	top := pool[0]
	return Result{
		Original:    text,
		Corrected:   top.Text,
		Suggestions: pool,
		Confidence:  top.Confidence,
		ChangesMade: text != top.Text,
	}
}

// gate suppresses low-confidence rewrites: below the threshold the
// original text wins with full confidence.
func (s *Service) gate(res Result) Result {
	if res.Confidence >= s.opts.MinConfidence || res.Corrected == res.Original {
		return res
	}
	log.Debugf("Gating low-confidence correction (%.2f < %.2f)", res.Confidence, s.opts.MinConfidence)
	return originalResult(res.Original)
}

func (s *Service) clampSuggestions(n int) int {
	if n < 1 {
		return s.opts.DefaultSuggestions
	}
	if n > s.opts.MaxSuggestions {
		return s.opts.MaxSuggestions
	}
	return n
}

func (s *Service) finish(res Result, start time.Time) Result {
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	res.ProcessingMs = elapsed
	s.totalRequests++
	s.totalElapsedMs += elapsed
	return res
}

// Stats is a point-in-time service summary for the stats command.
type Stats struct {
	Requests     int64        `json:"requests"`
	AvgElapsedMs float64      `json:"avg_time_ms"`
	NgramTrained bool         `json:"ngram_trained"`
	NeuralLoaded bool         `json:"neural_loaded"`
	Cache        *cache.Stats `json:"cache,omitempty"`
}

// Stats reports best-effort counters and collaborator health.
func (s *Service) Stats(ctx context.Context) Stats {
	st := Stats{
		Requests:     s.totalRequests,
		NgramTrained: s.model != nil && s.model.Trained(),
		NeuralLoaded: s.neural != nil,
	}
	if s.totalRequests > 0 {
		st.AvgElapsedMs = s.totalElapsedMs / float64(s.totalRequests)
	}
	if s.cache != nil {
		cs := s.cache.Stats(ctx)
		st.Cache = &cs
	}
	return st
}

// ClearCache drops all cached results.
func (s *Service) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

func containsText(pool []Suggestion, text string) bool {
	for _, sug := range pool {
		if sug.Text == text {
			return true
		}
	}
	return false
}

func originalResult(text string) Result {
	return Result{
		Original:    text,
		Corrected:   text,
		Suggestions: []Suggestion{{Text: text, Confidence: 1.0, Source: "original"}},
		Confidence:  1.0,
	}
}

func noneResult(text string) Result {
	return Result{
		Original:    text,
		Corrected:   text,
		Suggestions: []Suggestion{{Text: text, Confidence: 0.0, Source: "none"}},
		Confidence:  0.0,
	}
}

func spellResult(original, corrected string, confidence float64) Result {
	return Result{
		Original:    original,
		Corrected:   corrected,
		Suggestions: []Suggestion{{Text: corrected, Confidence: confidence, Source: "spell"}},
		Confidence:  confidence,
		ChangesMade: original != corrected,
	}
}
