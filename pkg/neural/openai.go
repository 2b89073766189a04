package neural

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

const grammarPrompt = "You are a grammar corrector. Rewrite the user's text " +
	"with spelling and grammar fixed. Reply with the corrected text only, " +
	"no commentary or quotes. If the text is already correct, reply with it unchanged."

// Chat completions expose no per-token scores here, so confidence is a
// fixed policy: high when the model left the text alone, lower when it
// rewrote it, stepping down across sampled alternatives.
const (
	openaiUnchangedConfidence = 0.98
	openaiRewriteConfidence   = 0.90
	openaiAlternativeStep     = 0.05
)

// OpenAICorrector implements Corrector on the chat completions API.
type OpenAICorrector struct {
	client oai.Client
	model  string
}

// NewOpenAICorrector builds a client for the given model. timeout bounds
// each request on top of any caller context deadline.
func NewOpenAICorrector(apiKey, model string, timeout time.Duration) (*OpenAICorrector, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	return &OpenAICorrector{client: oai.NewClient(reqOpts...), model: model}, nil
}

// CorrectGrammar implements Corrector.
func (o *OpenAICorrector) CorrectGrammar(ctx context.Context, text string) (string, float64, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(grammarPrompt),
			oai.UserMessage(text),
		},
		Temperature: param.NewOpt(0.0),
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", 0, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("openai: empty choices in response")
	}
	corrected := strings.TrimSpace(resp.Choices[0].Message.Content)
	if corrected == "" {
		return "", 0, fmt.Errorf("openai: empty correction")
	}
	if strings.EqualFold(corrected, strings.TrimSpace(text)) {
		return corrected, openaiUnchangedConfidence, nil
	}
	return corrected, openaiRewriteConfidence, nil
}

// CorrectWithAlternatives implements Corrector by sampling n completions.
func (o *OpenAICorrector) CorrectWithAlternatives(ctx context.Context, text string, n int) ([]Alternative, error) {
	if n < 1 {
		n = 1
	}
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(grammarPrompt),
			oai.UserMessage(text),
		},
		Temperature: param.NewOpt(0.7),
		N:           param.NewOpt(int64(n)),
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}

	seen := make(map[string]struct{}, len(resp.Choices))
	var out []Alternative
	for _, choice := range resp.Choices {
		candidate := strings.TrimSpace(choice.Message.Content)
		if candidate == "" {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		conf := openaiRewriteConfidence - float64(len(out))*openaiAlternativeStep
		if conf < 0.5 {
			conf = 0.5
		}
		out = append(out, Alternative{Text: candidate, Confidence: conf})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("openai: no usable alternatives")
	}
	return out, nil
}
