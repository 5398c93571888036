package database

import "time"

// Blob is one row of history_blobs.
type Blob struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

const (
	SelectBlob = `
		SELECT key, value, updated_at
		FROM history_blobs
		WHERE key = $1
	`

	UpsertBlob = `
		INSERT INTO history_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	DeleteBlob = `
		DELETE FROM history_blobs
		WHERE key = $1
	`
)
