package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"design-campaign-backend/internal/history"
)

// StorageClient keeps each history blob as a JSON object in a Supabase
// Storage bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, publishableKey, bucket string) (*StorageClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", publishableKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// ObjectPath is where the blob for key lives inside the bucket.
func ObjectPath(key string) string {
	return fmt.Sprintf("history/%s.json", key)
}

func (s *StorageClient) GetPublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, ObjectPath(key))
}

func (s *StorageClient) Load(_ context.Context, key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, ObjectPath(key))
	if err != nil {
		if isNotFound(err) {
			return nil, history.ErrEmpty
		}
		return nil, fmt.Errorf("failed to download history object: %w", err)
	}
	return data, nil
}

func (s *StorageClient) Save(_ context.Context, key string, data []byte) error {
	contentType := "application/json"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, ObjectPath(key), bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload history object: %w", err)
	}
	return nil
}

func (s *StorageClient) Remove(_ context.Context, key string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{ObjectPath(key)}); err != nil {
		return fmt.Errorf("failed to remove history object: %w", err)
	}
	return nil
}

// storage-go reports a missing object only through its error text.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
