package sivi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultKeyHeader = "sivi-api-key"

	submitPath   = "/general/designs-from-prompt"
	statusPath   = "/general/get-request-status"
	variantsPath = "/general/get-design-variants"
)

// Client forwards calls to the upstream design API, adding the credential
// header. Response bodies are returned untouched.
type Client struct {
	baseURL    string
	apiKey     string
	keyHeader  string
	httpClient *http.Client
}

// Response is an upstream reply as received.
type Response struct {
	StatusCode int
	Body       []byte
}

func NewClient(baseURL, apiKey, keyHeader string, timeout time.Duration) *Client {
	if keyHeader == "" {
		keyHeader = DefaultKeyHeader
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		keyHeader: keyHeader,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SubmitDesign posts payload byte-for-byte. An empty payload is sent as {}.
func (c *Client) SubmitDesign(ctx context.Context, payload []byte) (*Response, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("{}")
	}
	return c.do(ctx, http.MethodPost, c.baseURL+submitPath, payload)
}

func (c *Client) GetRequestStatus(ctx context.Context, requestID string) (*Response, error) {
	u, err := c.queryURL(statusPath, "requestId", requestID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, u, nil)
}

func (c *Client) GetDesignVariants(ctx context.Context, designID string) (*Response, error) {
	u, err := c.queryURL(variantsPath, "designId", designID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, u, nil)
}

// queryURL builds path?queryParams={"<name>":"<value>"}, the form the
// upstream GET endpoints take their arguments in.
func (c *Client) queryURL(path, name, value string) (string, error) {
	params, err := json.Marshal(map[string]string{name: value})
	if err != nil {
		return "", fmt.Errorf("failed to encode query params: %w", err)
	}
	q := url.Values{}
	q.Set("queryParams", string(params))
	return c.baseURL + path + "?" + q.Encode(), nil
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(c.keyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to decode response: status %d, body is not JSON", resp.StatusCode)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
