package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

type fakeChatModel struct {
	reply  *schema.Message
	err    error
	calls  int
	inputs [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestNewWithoutKeyIsConfigurationError(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{})
	if !errors.Is(err, contractx.ErrConfiguration) {
		t.Fatalf("New() error = %v, want ErrConfiguration", err)
	}
	if err.Error() != "Missing OPENAI_API_KEY in .env" {
		t.Fatalf("New() error = %q", err.Error())
	}
}

func TestConfigValidateRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	err := Config{APIKey: "k", APIMode: "completions"}.Validate()
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
	if err := (Config{APIKey: "k", APIMode: " Chat "}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestConfigOpenRouterLeavesUnsetKnobsNil(t *testing.T) {
	t.Parallel()

	got := Config{APIKey: " k ", Temperature: -1}.OpenRouter()
	if got.APIKey != "k" || got.Model != DefaultModel {
		t.Fatalf("OpenRouter() = %#v", got)
	}
	if got.Temperature != nil || got.MaxCompletionToken != nil {
		t.Fatalf("OpenRouter() knobs = %v %v, want nil", got.Temperature, got.MaxCompletionToken)
	}

	got = Config{APIKey: "k", Temperature: 0.2, MaxCompletionToken: 300}.OpenRouter()
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Fatalf("Temperature = %v", got.Temperature)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 300 {
		t.Fatalf("MaxCompletionToken = %v", got.MaxCompletionToken)
	}
}

func TestChatCompleterReturnsContentVerbatim(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "  - one\n- two\n- three  "}}
	completer := NewChatCompleter(fake)

	out, err := completer.Complete(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "  - one\n- two\n- three  " {
		t.Fatalf("Complete() = %q", out)
	}
	if fake.calls != 1 {
		t.Fatalf("calls = %d, want 1", fake.calls)
	}
	if len(fake.inputs[0]) != 1 || fake.inputs[0][0].Role != schema.User || fake.inputs[0][0].Content != "summarize" {
		t.Fatalf("input = %#v", fake.inputs[0])
	}
}

func TestChatCompleterWrapsFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("rate limited")}
	_, err := NewChatCompleter(fake).Complete(context.Background(), "summarize")
	if !errors.Is(err, contractx.ErrSummaryGeneration) {
		t.Fatalf("Complete() error = %v, want ErrSummaryGeneration", err)
	}
	if fake.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry)", fake.calls)
	}
}

func TestChatCompleterRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{}
	_, err := NewChatCompleter(fake).Complete(context.Background(), "   ")
	if !errors.Is(err, contractx.ErrSummaryGeneration) {
		t.Fatalf("Complete() error = %v, want ErrSummaryGeneration", err)
	}
	if fake.calls != 0 {
		t.Fatalf("calls = %d, want 0", fake.calls)
	}
}

const responsesPayload = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1700000000,
  "status": "completed",
  "model": "gpt-4.1-mini",
  "output": [
    {
      "type": "message",
      "id": "msg_1",
      "status": "completed",
      "role": "assistant",
      "content": [
        {"type": "output_text", "text": "- 3 contacts\n- 0 deals\n- no revenue yet", "annotations": []}
      ]
    }
  ]
}`

func TestResponsesCompleterCallsResponsesAPI(t *testing.T) {
	t.Parallel()

	var calls int32
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/responses") {
			t.Errorf("path = %s, want .../responses", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, responsesPayload)
	}))
	t.Cleanup(server.Close)

	completer := NewResponsesCompleter(
		Config{APIKey: "sk-test", BaseURL: server.URL, Temperature: -1},
		option.WithHTTPClient(server.Client()),
	)

	out, err := completer.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "- 3 contacts\n- 0 deals\n- no revenue yet" {
		t.Fatalf("Complete() = %q", out)
	}
	if got["model"] != DefaultModel || got["input"] != "the prompt" {
		t.Fatalf("request = %#v", got)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestResponsesCompleterDoesNotRetryProviderError(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	t.Cleanup(server.Close)

	completer := NewResponsesCompleter(
		Config{APIKey: "sk-test", BaseURL: server.URL, Temperature: -1},
		option.WithHTTPClient(server.Client()),
	)

	_, err := completer.Complete(context.Background(), "the prompt")
	if !errors.Is(err, contractx.ErrSummaryGeneration) {
		t.Fatalf("Complete() error = %v, want ErrSummaryGeneration", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
