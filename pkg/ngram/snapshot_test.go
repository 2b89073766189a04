package ngram

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := New(4)
	m.Train(trainingTexts, 1)

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := New(4)
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !restored.Trained() {
		t.Error("Restored model should report trained")
	}
	if restored.Order() != m.Order() {
		t.Errorf("Order = %d, want %d", restored.Order(), m.Order())
	}
	if restored.VocabSize() != m.VocabSize() {
		t.Errorf("VocabSize = %d, want %d", restored.VocabSize(), m.VocabSize())
	}
	if restored.TotalWords() != m.TotalWords() {
		t.Errorf("TotalWords = %d, want %d", restored.TotalWords(), m.TotalWords())
	}

	// probabilities must survive the round trip bit for bit
	queries := []struct {
		word    string
		context []string
	}{
		{"fox", []string{"the", "quick", "brown"}},
		{"dog", []string{"lazy"}},
		{"zebra", []string{"the"}},
		{"the", nil},
	}
	for _, q := range queries {
		want := m.Probability(q.word, q.context, DefaultSmoothing)
		got := restored.Probability(q.word, q.context, DefaultSmoothing)
		if got != want {
			t.Errorf("P(%q | %v) = %v after reload, want %v", q.word, q.context, got, want)
		}
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	m := New(4)
	if err := m.Load(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("Expected an error for a missing snapshot")
	}
	if m.Trained() {
		t.Error("A failed load must leave the model untrained")
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(path, []byte("this is not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(4)
	if err := m.Load(path); err == nil {
		t.Error("Expected an error for a corrupt snapshot")
	}
	if m.Trained() {
		t.Error("A corrupt snapshot must leave the model untrained")
	}
	// the model still serves the flat smoothing constant
	if p := m.Probability("anything", nil, DefaultSmoothing); p != DefaultSmoothing {
		t.Errorf("Expected flat smoothing after failed load, got %v", p)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")

	m := New(2)
	m.Train([]string{"one two three"}, 1)
	if err := m.Save(path); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	m.Train([]string{"four five six"}, 1)
	if err := m.Save(path); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind after save")
	}

	restored := New(2)
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored.TotalWords() != m.TotalWords() {
		t.Errorf("TotalWords = %d, want %d", restored.TotalWords(), m.TotalWords())
	}
}
