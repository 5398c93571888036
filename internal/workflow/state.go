package workflow

import (
	"encoding/json"

	"design-campaign-backend/internal/models"
)

type Phase int

const (
	Idle Phase = iota
	Submitting
	SubmitFailed
	Queued
	Polling
	Completed
	Failed
	PollError
)

var phaseNames = map[Phase]string{
	Idle:         "idle",
	Submitting:   "submitting",
	SubmitFailed: "submit_failed",
	Queued:       "queued",
	Polling:      "polling",
	Completed:    "completed",
	Failed:       "failed",
	PollError:    "poll_error",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further automatic transition follows p.
func (p Phase) Terminal() bool {
	switch p {
	case SubmitFailed, Completed, Failed, PollError:
		return true
	}
	return false
}

// State is a point-in-time copy of one workflow invocation.
type State struct {
	Epoch     uint64
	Phase     Phase
	RequestID string
	// Attempt is the 0-based index of the most recent status check.
	Attempt int
	Request *models.GenerationRequest
	// Response holds the submit response until a completed status response
	// replaces it.
	Response  json.RawMessage
	Variants  []models.Variant
	Logs      []models.LogEntry
	HistoryID string
}

// InProgress is true while a submission or poll is outstanding.
func (s State) InProgress() bool {
	switch s.Phase {
	case Submitting, Queued, Polling:
		return true
	}
	return false
}

func (s State) clone() State {
	out := s
	if s.Request != nil {
		req := s.Request.Clone()
		out.Request = &req
	}
	out.Response = append(json.RawMessage(nil), s.Response...)
	out.Variants = append([]models.Variant{}, s.Variants...)
	out.Logs = append([]models.LogEntry{}, s.Logs...)
	return out
}
