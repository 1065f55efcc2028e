package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	openrouterx "github.com/tanpawarit/crm-insights-gateway/pkg/openrouter"
)

const (
	ModeResponses = "responses"
	ModeChat      = "chat"

	DefaultModel  = "gpt-4.1-mini"
	keyVariable   = "OPENAI_API_KEY"
	unsetSentinel = -1
)

type Config struct {
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4.1-mini"`
	APIMode            string        `envconfig:"API_MODE" split_words:"true" default:"responses"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"0"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"-1"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

// Enabled reports whether a credential was supplied. A missing key is not a startup error.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c Config) Validate() error {
	switch c.mode() {
	case ModeResponses, ModeChat:
	default:
		return fmt.Errorf("%w: unsupported completion api mode %q", contractx.ErrValidation, c.APIMode)
	}
	if c.MaxCompletionToken < 0 {
		return fmt.Errorf("%w: max completion token must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) mode() string {
	mode := strings.ToLower(strings.TrimSpace(c.APIMode))
	if mode == "" {
		return ModeResponses
	}
	return mode
}

func (c Config) modelName() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	return DefaultModel
}

func (c Config) OpenRouter() openrouterx.Config {
	out := openrouterx.Config{
		BaseURL:  strings.TrimSpace(c.BaseURL),
		APIKey:   strings.TrimSpace(c.APIKey),
		Model:    c.modelName(),
		Timeout:  c.Timeout,
		SiteURL:  strings.TrimSpace(c.SiteURL),
		SiteName: strings.TrimSpace(c.SiteName),
	}
	if c.MaxCompletionToken > 0 {
		maxCompletionToken := c.MaxCompletionToken
		out.MaxCompletionToken = &maxCompletionToken
	}
	if c.Temperature > unsetSentinel {
		temp := c.Temperature
		out.Temperature = &temp
	}
	return out
}
