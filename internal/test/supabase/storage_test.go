package supabase_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-campaign-backend/internal/database"
	"design-campaign-backend/internal/history"
	"design-campaign-backend/internal/supabase"
)

func TestObjectPath(t *testing.T) {
	assert.Equal(t, "history/sivi_api_history.json", supabase.ObjectPath("sivi_api_history"))
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://abc.supabase.co/", "anon", "design-history")
	require.NoError(t, err)

	assert.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/design-history/history/sivi_api_history.json",
		client.GetPublicURL("sivi_api_history"))
}

func TestNewStorageClient_RequiresBucket(t *testing.T) {
	_, err := supabase.NewStorageClient("https://abc.supabase.co", "anon", "")
	assert.Error(t, err)
}

func testKey() string {
	return "designctl_test_" + strconv.Itoa(os.Getpid())
}

func roundTrip(t *testing.T, m history.Medium) {
	t.Helper()
	ctx := context.Background()
	key := testKey()
	t.Cleanup(func() { _ = m.Remove(ctx, key) })

	require.NoError(t, m.Save(ctx, key, []byte(`[]`)))
	data, err := m.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	require.NoError(t, m.Remove(ctx, key))
	_, err = m.Load(ctx, key)
	assert.ErrorIs(t, err, history.ErrEmpty)
}

func supabaseEnv(t *testing.T) (string, string) {
	t.Helper()
	url, key := os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_PUBLISHABLE_KEY")
	if url == "" || key == "" {
		t.Skip("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY not set")
	}
	return url, key
}

func TestStorageClient_RoundTrip(t *testing.T) {
	url, key := supabaseEnv(t)
	client, err := supabase.NewStorageClient(url, key, "design-history")
	require.NoError(t, err)
	roundTrip(t, client)
}

func TestTableClient_RoundTrip(t *testing.T) {
	url, key := supabaseEnv(t)
	client, err := supabase.NewClient(url, key, "history_blobs")
	require.NoError(t, err)
	roundTrip(t, client)
}

func TestDatabaseClient_RoundTrip(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	m, err := database.NewMigrator(dbURL, nil)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))
	require.NoError(t, m.Close())

	client, err := supabase.NewDatabaseClient(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	roundTrip(t, client)
}
