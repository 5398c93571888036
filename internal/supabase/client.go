package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"design-campaign-backend/internal/history"
)

// Client stores history blobs as rows of a PostgREST table with columns
// (key text primary key, value text, updated_at timestamptz).
type Client struct {
	Supabase *supabase.Client
	table    string
}

type blobRow struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(url, publishableKey, table string) (*Client, error) {
	client, err := supabase.NewClient(url, publishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase: client,
		table:    table,
	}, nil
}

func (c *Client) Load(_ context.Context, key string) ([]byte, error) {
	var rows []blobRow
	_, err := c.Supabase.From(c.table).
		Select("key,value,updated_at", "", false).
		Eq("key", key).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to select history row: %w", err)
	}
	if len(rows) == 0 {
		return nil, history.ErrEmpty
	}
	return []byte(rows[0].Value), nil
}

func (c *Client) Save(_ context.Context, key string, data []byte) error {
	row := blobRow{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	_, _, err := c.Supabase.From(c.table).
		Upsert(row, "key", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert history row: %w", err)
	}
	return nil
}

func (c *Client) Remove(_ context.Context, key string) error {
	_, _, err := c.Supabase.From(c.table).
		Delete("minimal", "").
		Eq("key", key).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete history row: %w", err)
	}
	return nil
}
