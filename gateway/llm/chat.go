package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

var _ contractx.Completer = (*ChatCompleter)(nil)

// ChatCompleter sends the prompt as a single user message to an eino chat model.
type ChatCompleter struct {
	model einomodel.BaseChatModel
}

func NewChatCompleter(m einomodel.BaseChatModel) *ChatCompleter {
	return &ChatCompleter{model: m}
}

func (c *ChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.model == nil {
		return "", generationError("chat", errors.New("chat model is not configured"))
	}
	if strings.TrimSpace(prompt) == "" {
		return "", generationError("chat", errors.New("prompt is empty"))
	}

	start := time.Now()
	msg, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	observe(ModeChat, err == nil, time.Since(start))
	if err != nil {
		return "", generationError("chat", err)
	}
	if msg == nil {
		return "", generationError("chat", errors.New("model returned no message"))
	}

	return msg.Content, nil
}
