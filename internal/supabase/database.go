package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"design-campaign-backend/internal/database"
	"design-campaign-backend/internal/history"
)

// DatabaseClient stores history blobs in the Postgres table created by the
// embedded migrations.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Load(ctx context.Context, key string) ([]byte, error) {
	var blob database.Blob
	err := d.db.QueryRowContext(ctx, database.SelectBlob, key).Scan(&blob.Key, &blob.Value, &blob.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, history.ErrEmpty
		}
		return nil, fmt.Errorf("failed to load history blob: %w", err)
	}
	return blob.Value, nil
}

func (d *DatabaseClient) Save(ctx context.Context, key string, data []byte) error {
	if _, err := d.db.ExecContext(ctx, database.UpsertBlob, key, string(data)); err != nil {
		return fmt.Errorf("failed to save history blob: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Remove(ctx context.Context, key string) error {
	if _, err := d.db.ExecContext(ctx, database.DeleteBlob, key); err != nil {
		return fmt.Errorf("failed to remove history blob: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
