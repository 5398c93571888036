package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"design-campaign-backend/internal/models"
	"design-campaign-backend/internal/workflow"
)

// manualScheduler queues callbacks until the test runs them. With
// ignoreCancel set, Cancel has no effect, which models a timer that fires
// regardless of the caller's wishes.
type manualScheduler struct {
	mu           sync.Mutex
	pending      []*manualTask
	delays       []time.Duration
	ignoreCancel bool
}

type manualTask struct {
	s         *manualScheduler
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.ignoreCancel {
		return false
	}
	t.cancelled = true
	return true
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) workflow.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{s: s, fn: fn}
	s.pending = append(s.pending, task)
	s.delays = append(s.delays, delay)
	return task
}

// RunNext fires the oldest live callback on the calling goroutine.
func (s *manualScheduler) RunNext() bool {
	s.mu.Lock()
	var next *manualTask
	for len(s.pending) > 0 {
		head := s.pending[0]
		s.pending = s.pending[1:]
		if !head.cancelled {
			next = head
			break
		}
	}
	s.mu.Unlock()

	if next == nil {
		return false
	}
	next.fn()
	return true
}

func (s *manualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *manualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type reply struct {
	env *models.Envelope
	err error
}

// fakeRelay answers from scripted replies. An exhausted status script keeps
// reporting "queued".
type fakeRelay struct {
	mu         sync.Mutex
	submit     reply
	statuses   []reply
	statusIDs  []string
	submitted  []models.GenerationRequest
	statusGate chan struct{}
}

func (f *fakeRelay) SubmitDesign(_ context.Context, req models.GenerationRequest) (*models.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	return f.submit.env, f.submit.err
}

func (f *fakeRelay) RequestStatus(_ context.Context, requestID string) (*models.Envelope, error) {
	f.mu.Lock()
	gate := f.statusGate
	f.statusIDs = append(f.statusIDs, requestID)
	var r reply
	if len(f.statuses) > 0 {
		r = f.statuses[0]
		f.statuses = f.statuses[1:]
	} else {
		r = reply{env: mustEnvelope(200, `{"status":"queued"}`)}
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return r.env, r.err
}

func (f *fakeRelay) StatusIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.statusIDs...)
}

type appendCall struct {
	req      *models.GenerationRequest
	response json.RawMessage
	logs     []models.LogEntry
	variants []models.Variant
}

type fakeHistory struct {
	mu    sync.Mutex
	calls []appendCall
	fail  bool
}

func (h *fakeHistory) Append(_ context.Context, req *models.GenerationRequest, response json.RawMessage, logs []models.LogEntry, variants []models.Variant) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, appendCall{req: req, response: response, logs: logs, variants: variants})
	if h.fail || req == nil {
		return "", false
	}
	return fmt.Sprintf("%d", 1700000000000+len(h.calls)), true
}

func (h *fakeHistory) Calls() []appendCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]appendCall(nil), h.calls...)
}

func mustEnvelope(status int, body string) *models.Envelope {
	env, err := models.DecodeEnvelope([]byte(fmt.Sprintf(`{"status":%d,"body":%s}`, status, body)))
	if err != nil {
		panic(err)
	}
	env.HTTPStatus = 200
	return env
}

func queued(id string) reply {
	return reply{env: mustEnvelope(200, fmt.Sprintf(`{"requestId":%q,"queueWaitTime":12}`, id))}
}

func status(s string) reply {
	return reply{env: mustEnvelope(200, fmt.Sprintf(`{"status":%q}`, s))}
}

func completed(variations string) reply {
	return reply{env: mustEnvelope(200, `{"status":"completed","result":{"variations":`+variations+`}}`)}
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newWorkflow(t *testing.T, relay *fakeRelay, hist *fakeHistory, opts ...workflow.Option) (*workflow.Workflow, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	base := []workflow.Option{
		workflow.WithScheduler(sched),
		workflow.WithClock(func() time.Time { return fixedNow }),
	}
	wf := workflow.New(relay, hist, append(base, opts...)...)
	require.NotNil(t, wf)
	return wf, sched
}

func sampleRequest() models.GenerationRequest {
	return models.GenerationRequest{
		Type:          "amazon",
		Subtype:       "amazon-square",
		Prompt:        "Get Free POS Development with your landing page",
		Language:      "english",
		NumOfVariants: 3,
		OutputFormat:  []string{"jpg"},
	}
}

func messages(logs []models.LogEntry) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Message
	}
	return out
}
