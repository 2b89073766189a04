package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/correctserve/correctserve/pkg/cache"
	"github.com/correctserve/correctserve/pkg/correct"
	"github.com/correctserve/correctserve/pkg/dictionary"
	"github.com/correctserve/correctserve/pkg/spell"
)

// runServer feeds input through the IPC loop and returns one decoded JSON
// object per response line.
func runServer(t *testing.T, input string, maxRequestSize int) []map[string]any {
	t.Helper()

	checker := spell.NewChecker(dictionary.NewBuiltin(), 2)
	resultCache := cache.New(cache.NewMemoryBackend(100), time.Hour)
	service := correct.NewService(checker, nil, nil, resultCache, correct.Options{
		MinConfidence:      0.8,
		DefaultSuggestions: 3,
		MaxSuggestions:     10,
	})

	var out bytes.Buffer
	srv := &Server{
		service:        service,
		maxRequestSize: maxRequestSize,
		reader:         bufio.NewReader(strings.NewReader(input)),
		writer:         &out,
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start returned %v", err)
	}

	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("Response line is not valid JSON: %q", line)
		}
		responses = append(responses, decoded)
	}
	return responses
}

func TestServerAnnouncesReady(t *testing.T) {
	responses := runServer(t, "", 0)
	if len(responses) != 1 || responses[0]["status"] != "ready" {
		t.Errorf("Expected a single ready banner, got %v", responses)
	}
}

func TestServerHandlesCorrectCommand(t *testing.T) {
	responses := runServer(t, `{"command":"correct","text":"recieve"}`+"\n", 0)

	if len(responses) != 2 {
		t.Fatalf("Expected banner + 1 response, got %d", len(responses))
	}
	resp := responses[1]
	if resp["corrected"] != "receive" {
		t.Errorf("corrected = %v, want receive", resp["corrected"])
	}
	if resp["changes_made"] != true {
		t.Error("Expected changes_made true")
	}
}

func TestServerRejectsBadInput(t *testing.T) {
	input := strings.Join([]string{
		`this is not json`,
		`{"command":"launch"}`,
		`{"command":"correct","text":"   "}`,
		``,
	}, "\n") + "\n"

	responses := runServer(t, input, 0)
	// banner + 3 error responses; the blank line is skipped
	if len(responses) != 4 {
		t.Fatalf("Expected 4 response lines, got %d: %v", len(responses), responses)
	}
	for _, resp := range responses[1:] {
		if resp["status"] != float64(400) {
			t.Errorf("Expected status 400, got %v", resp)
		}
		if resp["error"] == "" {
			t.Errorf("Expected an error message, got %v", resp)
		}
	}
}

func TestServerEnforcesMaxRequestSize(t *testing.T) {
	long := strings.Repeat("word ", 10)
	responses := runServer(t, `{"command":"correct","text":"`+long+`"}`+"\n", 10)

	resp := responses[1]
	if resp["status"] != float64(400) {
		t.Errorf("Expected a length rejection, got %v", resp)
	}
}

func TestServerStatsAndClearCache(t *testing.T) {
	input := `{"command":"correct","text":"recieve"}` + "\n" +
		`{"command":"stats"}` + "\n" +
		`{"command":"clear_cache"}` + "\n" +
		`{"command":"health"}` + "\n"

	responses := runServer(t, input, 0)
	if len(responses) != 5 {
		t.Fatalf("Expected 5 response lines, got %d", len(responses))
	}

	stats := responses[2]
	if stats["requests"] != float64(1) {
		t.Errorf("stats requests = %v, want 1", stats["requests"])
	}
	if responses[3]["status"] != "cleared" {
		t.Errorf("clear_cache response = %v", responses[3])
	}
	if responses[4]["status"] != "ok" {
		t.Errorf("health response = %v", responses[4])
	}
}

func TestParseModeDefaultsToAuto(t *testing.T) {
	if parseMode("") != correct.ModeAuto || parseMode("bogus") != correct.ModeAuto {
		t.Error("Unknown modes should fall back to auto")
	}
	if parseMode("suggestions") != correct.ModeSuggestions {
		t.Error("suggestions mode not recognized")
	}
	if parseMode("grammar") != correct.ModeGrammar {
		t.Error("grammar mode not recognized")
	}
}
