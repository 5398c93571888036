package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/models"
)

// Relay is the subset of the relay API the workflow drives.
type Relay interface {
	SubmitDesign(ctx context.Context, req models.GenerationRequest) (*models.Envelope, error)
	RequestStatus(ctx context.Context, requestID string) (*models.Envelope, error)
}

// History receives completed generations. It reports whether the record was
// stored.
type History interface {
	Append(ctx context.Context, req *models.GenerationRequest, response json.RawMessage, logs []models.LogEntry, variants []models.Variant) (string, bool)
}

var errEmptyResponse = errors.New("empty response")

// Workflow submits a generation request and polls its status until the
// upstream reports a terminal outcome.
//
// Every invocation gets a new epoch. Scheduled ticks and in-flight calls
// carry the epoch they were started under and drop their results once it is
// no longer current, so Clear and a superseding Submit take effect even when
// a reply is already on its way.
type Workflow struct {
	relay   Relay
	history History
	sched   Scheduler
	backoff Backoff
	now     func() time.Time
	onLog   func(models.LogEntry)
	log     *logger.Logger

	mu     sync.Mutex
	epoch  uint64
	state  State
	task   Task
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Workflow)

func WithScheduler(s Scheduler) Option {
	return func(w *Workflow) { w.sched = s }
}

func WithBackoff(b Backoff) Option {
	return func(w *Workflow) { w.backoff = b }
}

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func WithLogger(log *logger.Logger) Option {
	return func(w *Workflow) { w.log = log }
}

// WithOnLog registers fn to receive each log entry as it is appended. fn
// runs with the workflow locked and must not call back into it.
func WithOnLog(fn func(models.LogEntry)) Option {
	return func(w *Workflow) { w.onLog = fn }
}

func New(relay Relay, history History, opts ...Option) *Workflow {
	w := &Workflow{
		relay:   relay,
		history: history,
		sched:   TimerScheduler{},
		backoff: DefaultBackoff(),
		now:     time.Now,
		log:     logger.Nop(),
		done:    make(chan struct{}),
	}
	close(w.done)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit starts a new invocation for req, abandoning any current one, and
// blocks until the submission call resolves. ctx bounds the whole
// invocation including polling.
func (w *Workflow) Submit(ctx context.Context, req models.GenerationRequest) State {
	input := req.Clone()

	w.mu.Lock()
	w.stopLocked()
	w.epoch++
	epoch := w.epoch
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.state = State{Epoch: epoch, Phase: Submitting, Request: &input}
	w.addLogLocked("Starting API call to /designs-from-prompt")
	start := w.now()
	w.mu.Unlock()

	env, err := w.relay.SubmitDesign(runCtx, input)
	if err == nil && env == nil {
		err = errEmptyResponse
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if epoch != w.epoch {
		return w.state.clone()
	}

	elapsed := w.now().Sub(start).Milliseconds()
	if err != nil {
		w.log.Warn("design submission failed", "epoch", epoch, "error", err)
		w.addLogLocked(fmt.Sprintf("API call failed after %dms: %v", elapsed, err))
		w.finishLocked(SubmitFailed)
		return w.state.clone()
	}

	w.addLogLocked(fmt.Sprintf("API call completed in %dms", elapsed))
	w.addLogLocked(fmt.Sprintf("Response status: %d", responseCode(env)))
	w.state.Response = env.Raw

	body := env.SubmitBody()
	if env.Status != 200 || body.RequestID == "" {
		w.addLogLocked("Design generation failed or returned error")
		w.finishLocked(SubmitFailed)
		return w.state.clone()
	}

	w.state.RequestID = body.RequestID
	w.state.Phase = Queued
	w.addLogLocked("Design request queued. Request ID: " + body.RequestID)
	w.addLogLocked(fmt.Sprintf("Queue wait time: %s seconds", strconv.FormatFloat(body.QueueWaitTime, 'f', -1, 64)))
	w.addLogLocked(fmt.Sprintf("Starting status polling in %s seconds...", seconds(w.backoff.Initial)))
	w.scheduleLocked(runCtx, epoch, 0, w.backoff.Initial)

	w.log.Debug("design request queued", "epoch", epoch, "request_id", body.RequestID)
	return w.state.clone()
}

// Clear abandons the current invocation. Pending ticks are cancelled, the
// in-flight log is discarded and late replies are ignored.
func (w *Workflow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.epoch++
	w.state = State{Epoch: w.epoch, Phase: Idle}
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Wait blocks until the current invocation reaches a terminal phase or is
// abandoned, or ctx is done.
func (w *Workflow) Wait(ctx context.Context) (State, error) {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		return w.Snapshot(), nil
	case <-ctx.Done():
		return w.Snapshot(), ctx.Err()
	}
}

func (w *Workflow) scheduleLocked(ctx context.Context, epoch uint64, attempt int, delay time.Duration) {
	w.task = w.sched.Schedule(delay, func() {
		w.tick(ctx, epoch, attempt)
	})
}

func (w *Workflow) tick(ctx context.Context, epoch uint64, attempt int) {
	w.mu.Lock()
	if epoch != w.epoch {
		w.mu.Unlock()
		return
	}
	w.task = nil
	w.state.Phase = Polling
	w.state.Attempt = attempt
	w.addLogLocked(fmt.Sprintf("Polling design status (attempt %d)...", attempt+1))
	requestID := w.state.RequestID
	w.mu.Unlock()

	env, err := w.relay.RequestStatus(ctx, requestID)
	if err == nil && env == nil {
		err = errEmptyResponse
	}

	w.mu.Lock()
	if epoch != w.epoch {
		w.mu.Unlock()
		w.log.Debug("discarding stale status reply", "epoch", epoch, "attempt", attempt)
		return
	}

	if err != nil {
		w.log.Warn("status check failed", "epoch", epoch, "request_id", requestID, "error", err)
		w.addLogLocked(fmt.Sprintf("Polling error: %v. Stopping polling.", err))
		w.finishLocked(PollError)
		w.mu.Unlock()
		return
	}

	body := env.StatusBody()
	reported := body.Status
	if reported == "" {
		reported = "unknown"
	}
	w.addLogLocked("Status check response: " + reported)

	switch {
	case env.Status == 200 && body.Status == models.StatusCompleted:
		w.state.Response = env.Raw
		w.addLogLocked("Design generation completed!")
		variants := body.Variants()
		w.state.Variants = variants
		w.addLogLocked(fmt.Sprintf("Found %d design variants", len(variants)))

		snap := w.state.clone()
		w.mu.Unlock()
		w.complete(ctx, epoch, snap)
		return

	case env.Status != 200:
		w.addLogLocked(fmt.Sprintf("API error: Status %d. Stopping polling.", env.Status))
		w.finishLocked(PollError)

	case body.Status == models.StatusFailed || body.Status == models.StatusError:
		w.addLogLocked(fmt.Sprintf("Design generation failed: %s. Stopping polling.", body.Status))
		w.finishLocked(Failed)

	default:
		delay := w.backoff.Next(attempt)
		w.addLogLocked(fmt.Sprintf("Next status check in %s seconds...", seconds(delay)))
		w.scheduleLocked(ctx, epoch, attempt+1, delay)
	}
	w.mu.Unlock()
}

// complete persists a finished generation. The store is called without the
// lock held; the outcome is only recorded if the epoch is still live.
func (w *Workflow) complete(ctx context.Context, epoch uint64, snap State) {
	var (
		id string
		ok bool
	)
	if w.history != nil {
		id, ok = w.history.Append(context.WithoutCancel(ctx), snap.Request, snap.Response, snap.Logs, snap.Variants)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if epoch != w.epoch {
		return
	}
	if ok {
		w.state.HistoryID = id
		w.addLogLocked("Saved to history")
	} else {
		w.addLogLocked("Failed to save to history")
	}
	w.finishLocked(Completed)
	w.log.Info("design generation completed", "epoch", epoch, "request_id", snap.RequestID, "variants", len(snap.Variants), "history_id", id)
}

func (w *Workflow) addLogLocked(msg string) {
	entry := models.LogEntry{Timestamp: w.now(), Message: msg}
	w.state.Logs = append(w.state.Logs, entry)
	if w.onLog != nil {
		w.onLog(entry)
	}
}

func (w *Workflow) finishLocked(phase Phase) {
	w.state.Phase = phase
	w.task = nil
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.releaseLocked()
}

// stopLocked cancels whatever the current epoch has outstanding and wakes
// its waiters.
func (w *Workflow) stopLocked() {
	if w.task != nil {
		w.task.Cancel()
		w.task = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.releaseLocked()
}

func (w *Workflow) releaseLocked() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}

func responseCode(env *models.Envelope) int {
	if env.HTTPStatus != 0 {
		return env.HTTPStatus
	}
	return env.Status
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
