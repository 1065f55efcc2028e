package prompt

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

var (
	//go:embed template/summary.txt
	summaryRaw string
)

// SummaryTemplate returns the trimmed summary instructions with {contacts} and {deals} placeholders.
func SummaryTemplate() string {
	return strings.TrimSpace(summaryRaw)
}

// RenderSummary interpolates both collections as two-space indented JSON.
// Nil collections render as [].
func RenderSummary(ctx context.Context, contacts []contractx.ContactSummary, deals []contractx.DealSummary) (string, error) {
	if contacts == nil {
		contacts = []contractx.ContactSummary{}
	}
	if deals == nil {
		deals = []contractx.DealSummary{}
	}

	contactsJSON, err := indentJSON(contacts)
	if err != nil {
		return "", fmt.Errorf("%w: marshal contacts: %v", contractx.ErrValidation, err)
	}
	dealsJSON, err := indentJSON(deals)
	if err != nil {
		return "", fmt.Errorf("%w: marshal deals: %v", contractx.ErrValidation, err)
	}

	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(SummaryTemplate()))
	msgs, err := tpl.Format(ctx, map[string]any{
		"contacts": contactsJSON,
		"deals":    dealsJSON,
	})
	if err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}
	if len(msgs) != 1 || msgs[0] == nil {
		return "", errors.New("render summary prompt: unexpected message count")
	}
	return msgs[0].Content, nil
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
