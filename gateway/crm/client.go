package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	"github.com/tanpawarit/crm-insights-gateway/pkg/metric"
)

const (
	maxResponseSizeBytes = 4 << 20
	externalServiceName  = "hubspot"
)

var _ contractx.CRM = (*Client)(nil)

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client talks to the HubSpot CRM v3 objects API. One method call is one HTTP round trip.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type objectPage struct {
	Results []contractx.Object `json:"results"`
}

type associationPage struct {
	Results []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"results"`
}

type batchReadInput struct {
	ID string `json:"id"`
}

type batchReadRequest struct {
	Inputs     []batchReadInput `json:"inputs"`
	Properties []string         `json:"properties"`
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.AccessToken),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) ListObjects(ctx context.Context, kind contractx.ObjectType, limit int, properties []string) (json.RawMessage, error) {
	if err := checkPage(kind, limit, properties); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("properties", strings.Join(properties, ","))

	return c.exec(ctx, http.MethodGet, objectsPath(kind), query, nil)
}

func (c *Client) FetchObjects(ctx context.Context, kind contractx.ObjectType, limit int, properties []string) ([]contractx.Object, error) {
	raw, err := c.ListObjects(ctx, kind, limit, properties)
	if err != nil {
		return nil, err
	}

	var page objectPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode %s page: %w", kind, err)
	}
	if page.Results == nil {
		page.Results = []contractx.Object{}
	}
	return page.Results, nil
}

// CreateObject performs a remote mutation and is never retried.
func (c *Client) CreateObject(ctx context.Context, kind contractx.ObjectType, in contractx.CreateObjectInput) (json.RawMessage, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := in.Properties.Validate(); err != nil {
		return nil, err
	}
	return c.exec(ctx, http.MethodPost, objectsPath(kind), nil, in)
}

func (c *Client) AssociatedIDs(ctx context.Context, from contractx.ObjectType, id string, to contractx.ObjectType) ([]string, error) {
	if err := checkKind(from); err != nil {
		return nil, err
	}
	if err := checkKind(to); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: object id is empty", contractx.ErrValidation)
	}

	path := fmt.Sprintf("%s/%s/associations/%s", objectsPath(from), url.PathEscape(id), to)
	raw, err := c.exec(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var page associationPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode %s associations: %w", to, err)
	}

	ids := make([]string, 0, len(page.Results))
	for _, r := range page.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// BatchRead skips the network entirely when ids is empty.
func (c *Client) BatchRead(ctx context.Context, kind contractx.ObjectType, ids []string, properties []string) (json.RawMessage, error) {
	if err := checkProperties(kind, properties); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return json.RawMessage(`{"results":[]}`), nil
	}

	inputs := make([]batchReadInput, 0, len(ids))
	for _, id := range ids {
		inputs = append(inputs, batchReadInput{ID: id})
	}

	return c.exec(ctx, http.MethodPost, objectsPath(kind)+"/batch/read", nil, batchReadRequest{
		Inputs:     inputs,
		Properties: properties,
	})
}

func (c *Client) exec(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	if c == nil {
		return nil, errors.New("nil hubspot client")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal hubspot request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build hubspot request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(method, path, 0, time.Since(start))
		return nil, fmt.Errorf("execute hubspot request: %w", err)
	}
	defer resp.Body.Close()
	observe(method, path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read hubspot response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("hubspot rejected request")
		return nil, contractx.NewUpstreamError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode hubspot response: body is not json")
	}
	return json.RawMessage(raw), nil
}

func observe(method, path string, status int, latency time.Duration) {
	tags := metric.BuildTag(
		metric.NewTag(metric.TagExternalService, externalServiceName),
		metric.NewTag(metric.TagExternalServicePath, pathTemplate(path)),
		metric.NewTag(metric.TagExternalServiceMethod, method),
		metric.NewTag(metric.TagExternalServiceStatusCode, strconv.Itoa(status)),
	)
	metric.Incr(metric.ExternalApiRequestCount, tags)
	metric.Timing(metric.ExternalApiRequestLatency, latency, tags)
}

// pathTemplate drops object ids so metric tags stay low-cardinality.
func pathTemplate(path string) string {
	parts := strings.Split(path, "/")
	// /crm/v3/objects/{kind}/{id}/associations/{to}
	if len(parts) > 5 && parts[5] != "batch" {
		parts[5] = ":id"
	}
	return strings.Join(parts, "/")
}

func objectsPath(kind contractx.ObjectType) string {
	return "/crm/v3/objects/" + string(kind)
}

func checkKind(kind contractx.ObjectType) error {
	if kind.AllowedProperties() == nil {
		return fmt.Errorf("%w: unsupported object type %q", contractx.ErrValidation, kind)
	}
	return nil
}

func checkPage(kind contractx.ObjectType, limit int, properties []string) error {
	if limit < 1 || limit > MaxPageSize {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", contractx.ErrValidation, MaxPageSize, limit)
	}
	return checkProperties(kind, properties)
}

func checkProperties(kind contractx.ObjectType, properties []string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	allowed := kind.AllowedProperties()
	for _, p := range properties {
		if !slices.Contains(allowed, p) {
			return fmt.Errorf("%w: property %q is not allowed for %s", contractx.ErrValidation, p, kind)
		}
	}
	return nil
}
