package ngram

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped whenever the persisted layout changes.
const SnapshotVersion = 1

// snapshot is the full serialized model state. Every field round-trips
// exactly through Save/Load.
type snapshot struct {
	Version    int                       `msgpack:"version"`
	Order      int                       `msgpack:"order"`
	Unigrams   map[string]int            `msgpack:"unigrams"`
	Bigrams    map[string]map[string]int `msgpack:"bigrams"`
	Trigrams   map[string]map[string]int `msgpack:"trigrams"`
	Fourgrams  map[string]map[string]int `msgpack:"fourgrams"`
	Vocabulary []string                  `msgpack:"vocabulary"`
	TotalWords int                       `msgpack:"total_words"`
	Trained    bool                      `msgpack:"trained"`
}

// Save writes the model snapshot to path. The write goes through a temp
// file and rename so a crash never leaves a truncated snapshot behind.
func (m *Model) Save(path string) error {
	vocab := make([]string, 0, len(m.vocab))
	for w := range m.vocab {
		vocab = append(vocab, w)
	}
	sort.Strings(vocab)

	data, err := msgpack.Marshal(snapshot{
		Version:    SnapshotVersion,
		Order:      m.order,
		Unigrams:   m.unigrams,
		Bigrams:    m.bigrams,
		Trigrams:   m.trigrams,
		Fourgrams:  m.fourgrams,
		Vocabulary: vocab,
		TotalWords: m.totalWords,
		Trained:    m.trained,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	log.Debugf("Saved %d-gram snapshot to %s (%d bytes)", m.order, path, len(data))
	return nil
}

// Load replaces the model state with the snapshot at path. A missing or
// corrupt snapshot returns an error and leaves the model untouched, so a
// bad file degrades to the untrained flat-smoothing state instead of
// crashing the process.
func (m *Model) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d unsupported (want %d)", snap.Version, SnapshotVersion)
	}
	if snap.Order < 1 || snap.Order > MaxOrder {
		return fmt.Errorf("snapshot order %d out of range", snap.Order)
	}

	m.order = snap.Order
	m.unigrams = orEmpty(snap.Unigrams)
	m.bigrams = orEmptyNested(snap.Bigrams)
	m.trigrams = orEmptyNested(snap.Trigrams)
	m.fourgrams = orEmptyNested(snap.Fourgrams)
	m.vocab = make(map[string]struct{}, len(snap.Vocabulary))
	for _, w := range snap.Vocabulary {
		m.vocab[w] = struct{}{}
	}
	m.totalWords = snap.TotalWords
	m.trained = snap.Trained

	log.Debugf("Loaded %d-gram snapshot from %s: vocabulary %d", m.order, path, len(m.vocab))
	return nil
}

func orEmpty(in map[string]int) map[string]int {
	if in == nil {
		return make(map[string]int)
	}
	return in
}

func orEmptyNested(in map[string]map[string]int) map[string]map[string]int {
	if in == nil {
		return make(map[string]map[string]int)
	}
	return in
}
