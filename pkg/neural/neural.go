/*
Package neural defines the external grammar-corrector collaborator and two
client implementations: an HTTP JSON client for a dedicated inference
sidecar and an OpenAI chat-completions client.

The model is a black box to the rest of the system: text in, corrected text
and a confidence out. Implementations must not keep mutable state visible
across requests; any fault they return is downgraded by the orchestrator,
never surfaced to callers.
*/
package neural

import "context"

// Alternative pairs a corrected text with the model's confidence in it.
type Alternative struct {
	Text       string
	Confidence float64
}

// Corrector is the grammar-model contract.
type Corrector interface {
	// CorrectGrammar rewrites text and reports confidence in [0,1].
	CorrectGrammar(ctx context.Context, text string) (string, float64, error)
	// CorrectWithAlternatives returns up to n candidate rewrites.
	CorrectWithAlternatives(ctx context.Context, text string, n int) ([]Alternative, error)
}
