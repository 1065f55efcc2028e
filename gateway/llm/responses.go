package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	openrouterx "github.com/tanpawarit/crm-insights-gateway/pkg/openrouter"
)

var _ contractx.Completer = (*ResponsesCompleter)(nil)

// ResponsesCompleter calls the OpenAI Responses API once per prompt.
type ResponsesCompleter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature *float32
}

func NewResponsesCompleter(cfg Config, opts ...option.RequestOption) *ResponsesCompleter {
	orCfg := cfg.OpenRouter()
	c := &ResponsesCompleter{
		client:      openrouterx.NewClient(orCfg, opts...),
		model:       orCfg.Model,
		temperature: orCfg.Temperature,
	}
	if orCfg.MaxCompletionToken != nil {
		c.maxTokens = *orCfg.MaxCompletionToken
	}
	return c
}

func (c *ResponsesCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", generationError("responses", errors.New("client is not configured"))
	}
	if strings.TrimSpace(prompt) == "" {
		return "", generationError("responses", errors.New("prompt is empty"))
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}
	if c.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(c.maxTokens))
	}
	if c.temperature != nil {
		params.Temperature = openai.Float(float64(*c.temperature))
	}

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	observe(ModeResponses, err == nil, time.Since(start))
	if err != nil {
		return "", generationError("responses", err)
	}

	return resp.OutputText(), nil
}
