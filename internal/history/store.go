package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"design-campaign-backend/internal/designs"
	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/models"
)

const (
	DefaultKey      = "sivi_api_history"
	DefaultMaxItems = 50

	labelPromptLimit = 30
	// LabelLayout renders timestamps like an en-US locale string.
	LabelLayout = "1/2/2006, 3:04:05 PM"
)

// Record is one completed generation. Records are immutable once stored.
type Record struct {
	ID             string                   `json:"id"`
	Timestamp      string                   `json:"timestamp"`
	Prompt         string                   `json:"prompt"`
	Dimensions     models.Dimension         `json:"dimensions"`
	Type           string                   `json:"type"`
	Subtype        string                   `json:"subtype"`
	APIInput       models.GenerationRequest `json:"apiInput"`
	APIResponse    json.RawMessage          `json:"apiResponse,omitempty"`
	APILogs        []models.LogEntry        `json:"apiLogs"`
	DesignVariants []models.Variant         `json:"designVariants"`
}

// Store is a capped, most-recent-first list of Records persisted under a
// single key. Medium failures never reach callers: reads degrade to an
// empty history and writes are skipped.
type Store struct {
	medium   Medium
	key      string
	maxItems int
	now      func() time.Time
	log      *logger.Logger

	mu sync.Mutex
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium:   medium,
		key:      DefaultKey,
		maxItems: DefaultMaxItems,
		now:      time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stores a new record at the head of the list and trims the tail to
// the configured maximum. It reports false, storing nothing, when req is nil
// or the medium write fails.
func (s *Store) Append(ctx context.Context, req *models.GenerationRequest, response json.RawMessage, logs []models.LogEntry, variants []models.Variant) (string, bool) {
	if req == nil {
		s.log.Warn("history append skipped: request is missing")
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.load(ctx)
	created := s.now()

	id := created.UnixMilli()
	if len(existing) > 0 {
		if newest, err := strconv.ParseInt(existing[0].ID, 10, 64); err == nil && id <= newest {
			id = newest + 1
		}
	}

	input := req.Clone()
	rec := Record{
		ID:             strconv.FormatInt(id, 10),
		Timestamp:      created.UTC().Format("2006-01-02T15:04:05.000Z"),
		Prompt:         input.Prompt,
		Dimensions:     designs.Resolve(&input),
		Type:           input.Type,
		Subtype:        input.Subtype,
		APIInput:       input,
		APIResponse:    append(json.RawMessage(nil), response...),
		APILogs:        append([]models.LogEntry{}, logs...),
		DesignVariants: append([]models.Variant{}, variants...),
	}
	if rec.Prompt == "" {
		rec.Prompt = "No prompt"
	}
	if rec.Type == "" {
		rec.Type = "unknown"
	}
	if rec.Subtype == "" {
		rec.Subtype = "unknown"
	}

	list := make([]Record, 0, len(existing)+1)
	list = append(list, rec)
	list = append(list, existing...)
	if len(list) > s.maxItems {
		list = list[:s.maxItems]
	}

	data, err := json.Marshal(list)
	if err != nil {
		s.log.Warn("failed to encode history", "error", err)
		return "", false
	}
	if err := s.medium.Save(ctx, s.key, data); err != nil {
		s.log.Warn("failed to save history", "error", err)
		return "", false
	}

	return rec.ID, true
}

// List returns all records, most recent first.
func (s *Store) List(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the record with id, or false.
func (s *Store) Get(ctx context.Context, id string) (*Record, bool) {
	for _, rec := range s.List(ctx) {
		if rec.ID == id {
			r := rec
			return &r, true
		}
	}
	return nil, false
}

func (s *Store) Len(ctx context.Context) int {
	return len(s.List(ctx))
}

// Clear drops every record. Calling it on an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.medium.Remove(ctx, s.key); err != nil {
		s.log.Warn("failed to clear history", "error", err)
	}
}

func (s *Store) load(ctx context.Context) []Record {
	data, err := s.medium.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrEmpty) {
			s.log.Warn("failed to read history", "error", err)
		}
		return []Record{}
	}
	if len(data) == 0 {
		return []Record{}
	}

	var list []Record
	if err := json.Unmarshal(data, &list); err != nil {
		s.log.Warn("failed to decode history", "error", err)
		return []Record{}
	}
	if list == nil {
		return []Record{}
	}
	return list
}

// FormatLabel renders "<prompt preview> | <W>×<H> | <local time>". The
// preview is cut at 30 characters with "..." appended when cut.
func FormatLabel(rec Record, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	preview := rec.Prompt
	if runes := []rune(preview); len(runes) > labelPromptLimit {
		preview = string(runes[:labelPromptLimit]) + "..."
	}

	when := rec.Timestamp
	if ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp); err == nil {
		when = ts.In(loc).Format(LabelLayout)
	}

	return fmt.Sprintf("%s | %d×%d | %s", preview, rec.Dimensions.Width, rec.Dimensions.Height, when)
}
