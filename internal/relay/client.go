package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"design-campaign-backend/internal/models"
)

// ErrDecode is returned when the relay answers with something that is not
// a JSON object.
var ErrDecode = errors.New("undecodable relay response")

// Client talks to the relay server. Any HTTP status is returned as an
// Envelope; only transport and decode failures are errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) SubmitDesign(ctx context.Context, req models.GenerationRequest) (*models.Envelope, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/designs-from-prompt", payload)
}

func (c *Client) RequestStatus(ctx context.Context, requestID string) (*models.Envelope, error) {
	q := url.Values{}
	q.Set("requestId", requestID)
	return c.do(ctx, http.MethodGet, c.baseURL+"/get-request-status?"+q.Encode(), nil)
}

func (c *Client) DesignVariants(ctx context.Context, designID string) (*models.Envelope, error) {
	q := url.Values{}
	q.Set("designId", designID)
	return c.do(ctx, http.MethodGet, c.baseURL+"/get-design-variants?"+q.Encode(), nil)
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) (*models.Envelope, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	env, err := models.DecodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrDecode, resp.StatusCode, err)
	}
	env.HTTPStatus = resp.StatusCode
	return env, nil
}
