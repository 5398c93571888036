package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Upstream lifecycle states reported by get-request-status.
const (
	StatusQueued    = "queued"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusError     = "error"
)

// Envelope is the {status, body} wrapper returned by the upstream API and
// mirrored by the relay. Raw keeps the exact bytes received and HTTPStatus
// the code of the response that carried them.
type Envelope struct {
	Status     int             `json:"status"`
	Body       json.RawMessage `json:"body,omitempty"`
	Raw        json.RawMessage `json:"-"`
	HTTPStatus int             `json:"-"`
}

// DecodeEnvelope parses a relay response body. The raw bytes are retained
// verbatim for persistence.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	env.Raw = append(json.RawMessage(nil), data...)
	return &env, nil
}

// SubmitBody is the body of a designs-from-prompt response.
type SubmitBody struct {
	RequestID     string  `json:"requestId"`
	QueueWaitTime float64 `json:"queueWaitTime"`
}

// SubmitBody decodes Body leniently; a malformed body yields the zero value.
func (e *Envelope) SubmitBody() SubmitBody {
	var b SubmitBody
	if len(e.Body) > 0 {
		_ = json.Unmarshal(e.Body, &b)
	}
	return b
}

// StatusBody is the body of a get-request-status response.
type StatusBody struct {
	Status string        `json:"status"`
	Result *StatusResult `json:"result,omitempty"`
}

type StatusResult struct {
	Variations []Variation `json:"variations"`
}

type Variation struct {
	VariantImageURL string `json:"variantImageUrl"`
	VariantID       string `json:"variantId"`
	VariantEditLink string `json:"variantEditLink"`
}

func (e *Envelope) StatusBody() StatusBody {
	var b StatusBody
	if len(e.Body) > 0 {
		_ = json.Unmarshal(e.Body, &b)
	}
	return b
}

// Variant is the display-ready form of a Variation.
type Variant struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	EditLink string `json:"editLink"`
}

// Variants translates every result entry, in order. It never returns nil.
func (b StatusBody) Variants() []Variant {
	if b.Result == nil {
		return []Variant{}
	}
	out := make([]Variant, 0, len(b.Result.Variations))
	for _, v := range b.Result.Variations {
		out = append(out, Variant{URL: v.VariantImageURL, ID: v.VariantID, EditLink: v.VariantEditLink})
	}
	return out
}

// LogEntry is one timestamped workflow step.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func (l LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", l.Timestamp.Format("15:04:05"), l.Message)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
