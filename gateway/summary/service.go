package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	promptx "github.com/tanpawarit/crm-insights-gateway/gateway/prompt"
)

const DefaultSampleSize = 10

type Config struct {
	SampleSize int `split_words:"true" default:"10"`
}

func (c Config) Validate() error {
	if c.SampleSize < 0 || c.SampleSize > 100 {
		return fmt.Errorf("%w: summary sample size must be between 1 and 100", contractx.ErrValidation)
	}
	return nil
}

// Service samples contacts and deals from the CRM and asks the completer for a short narrative.
type Service struct {
	crm        contractx.CRM
	completer  contractx.Completer
	sampleSize int
}

// New accepts a nil completer: Summarize then fails with a ConfigurationError before any call.
func New(crm contractx.CRM, completer contractx.Completer, cfg Config) (*Service, error) {
	if crm == nil {
		return nil, errors.New("crm client is required")
	}
	size := cfg.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}
	return &Service{
		crm:        crm,
		completer:  completer,
		sampleSize: size,
	}, nil
}

func (s *Service) Summarize(ctx context.Context) (string, error) {
	if s.completer == nil {
		return "", &contractx.ConfigurationError{Name: "OPENAI_API_KEY"}
	}

	prompt, err := s.BuildPrompt(ctx)
	if err != nil {
		return "", err
	}

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, contractx.ErrSummaryGeneration) {
			err = fmt.Errorf("%w: %v", contractx.ErrSummaryGeneration, err)
		}
		return "", err
	}
	return text, nil
}

// BuildPrompt fetches the samples and renders the prompt. CRM errors are returned unchanged.
func (s *Service) BuildPrompt(ctx context.Context) (string, error) {
	contactObjs, err := s.crm.FetchObjects(ctx, contractx.ObjectContacts, s.sampleSize, contractx.ContactProperties)
	if err != nil {
		return "", err
	}
	dealObjs, err := s.crm.FetchObjects(ctx, contractx.ObjectDeals, s.sampleSize, contractx.DealProperties)
	if err != nil {
		return "", err
	}

	contacts := ProjectContacts(contactObjs)
	deals := ProjectDeals(dealObjs)
	log.Ctx(ctx).Debug().Int("contacts", len(contacts)).Int("deals", len(deals)).Msg("rendering summary prompt")

	prompt, err := promptx.RenderSummary(ctx, contacts, deals)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrSummaryGeneration, err)
	}
	return prompt, nil
}
