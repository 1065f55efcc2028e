package llm

import (
	"context"
	"fmt"
	"strconv"
	"time"

	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	"github.com/tanpawarit/crm-insights-gateway/pkg/metric"
	openrouterx "github.com/tanpawarit/crm-insights-gateway/pkg/openrouter"
)

// New builds the completer for cfg.APIMode. Callers check cfg.Enabled first.
func New(ctx context.Context, cfg Config) (contractx.Completer, error) {
	if !cfg.Enabled() {
		return nil, &contractx.ConfigurationError{Name: keyVariable}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.mode() {
	case ModeChat:
		chatModel, err := openrouterx.NewChatModel(ctx, cfg.OpenRouter())
		if err != nil {
			return nil, err
		}
		return NewChatCompleter(chatModel), nil
	default:
		return NewResponsesCompleter(cfg), nil
	}
}

func observe(mode string, ok bool, latency time.Duration) {
	tags := metric.BuildTag(
		metric.NewTag(metric.TagExternalService, "openai"),
		metric.NewTag(metric.TagExternalServicePath, mode),
		metric.NewTag(metric.TagExternalServiceStatusCode, strconv.FormatBool(ok)),
	)
	metric.Incr(metric.ExternalApiRequestCount, tags)
	metric.Timing(metric.ExternalApiRequestLatency, latency, tags)
}

func generationError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", contractx.ErrSummaryGeneration, stage, err)
}
