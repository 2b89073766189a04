package neural

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPCorrector talks to a grammar inference sidecar over JSON. The sidecar
// owns the actual transformer model; this client only moves text.
type HTTPCorrector struct {
	endpoint string
	client   *http.Client
}

// NewHTTPCorrector builds a client for the sidecar at endpoint
// (e.g. "http://localhost:8501"). timeout bounds each call; a call past its
// deadline is the same as a failed one to the orchestrator.
func NewHTTPCorrector(endpoint string, timeout time.Duration) *HTTPCorrector {
	return &HTTPCorrector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type correctRequest struct {
	Text string `json:"text"`
	N    int    `json:"n,omitempty"`
}

type correctResponse struct {
	Corrected    string  `json:"corrected"`
	Confidence   float64 `json:"confidence"`
	Alternatives []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"alternatives"`
}

// CorrectGrammar implements Corrector.
func (h *HTTPCorrector) CorrectGrammar(ctx context.Context, text string) (string, float64, error) {
	resp, err := h.post(ctx, "/correct", correctRequest{Text: text})
	if err != nil {
		return "", 0, err
	}
	if resp.Corrected == "" {
		return "", 0, fmt.Errorf("sidecar returned empty correction")
	}
	return resp.Corrected, clamp(resp.Confidence), nil
}

// CorrectWithAlternatives implements Corrector.
func (h *HTTPCorrector) CorrectWithAlternatives(ctx context.Context, text string, n int) ([]Alternative, error) {
	resp, err := h.post(ctx, "/alternatives", correctRequest{Text: text, N: n})
	if err != nil {
		return nil, err
	}
	out := make([]Alternative, 0, len(resp.Alternatives))
	for _, alt := range resp.Alternatives {
		if alt.Text == "" {
			continue
		}
		out = append(out, Alternative{Text: alt.Text, Confidence: clamp(alt.Confidence)})
	}
	return out, nil
}

func (h *HTTPCorrector) post(ctx context.Context, path string, body correctRequest) (*correctResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call sidecar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sidecar status %d: %s", resp.StatusCode, body)
	}

	var decoded correctResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
