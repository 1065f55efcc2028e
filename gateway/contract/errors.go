package contract

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSummaryGeneration = errors.New("summary generation failed")
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation failed")
)

// UpstreamError is returned when the CRM provider answers with a non-2xx status.
// Body holds the provider payload as JSON (a JSON string when the payload was not JSON).
type UpstreamError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status=%d body=%s", e.StatusCode, string(e.Body))
}

// NewUpstreamError keeps raw as-is when it is valid JSON.
func NewUpstreamError(statusCode int, raw []byte) *UpstreamError {
	body := json.RawMessage(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		encoded, _ := json.Marshal(string(raw))
		body = encoded
	}
	return &UpstreamError{StatusCode: statusCode, Body: body}
}

// ConfigurationError names a credential that was not provided.
type ConfigurationError struct {
	Name string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Missing %s in .env", e.Name)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
