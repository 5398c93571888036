package history_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"design-campaign-backend/internal/history"
)

// exerciseMedium runs the Medium contract against m under a test-unique key.
func exerciseMedium(t *testing.T, m history.Medium, key string) {
	t.Helper()
	ctx := context.Background()

	_, err := m.Load(ctx, key)
	assert.ErrorIs(t, err, history.ErrEmpty)

	require.NoError(t, m.Save(ctx, key, []byte(`[{"id":"1"}]`)))
	data, err := m.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))

	require.NoError(t, m.Save(ctx, key, []byte(`[]`)))
	data, err = m.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	require.NoError(t, m.Remove(ctx, key))
	_, err = m.Load(ctx, key)
	assert.ErrorIs(t, err, history.ErrEmpty)

	// removing an absent key is fine
	require.NoError(t, m.Remove(ctx, key))
}

func TestMemoryMedium(t *testing.T) {
	exerciseMedium(t, history.NewMemoryMedium(), history.DefaultKey)
}

func TestFileMedium(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := history.NewFileMedium(fsys, "/home/user/.config/designctl")
	exerciseMedium(t, m, history.DefaultKey)
}

func TestFileMedium_WritesJSONFile(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	m := history.NewFileMedium(fsys, "/data")

	require.NoError(t, m.Save(ctx, "sivi_api_history", []byte(`[]`)))

	exists, err := afero.Exists(fsys, "/data/sivi_api_history.json")
	require.NoError(t, err)
	assert.True(t, exists)

	leftovers, err := afero.Glob(fsys, "/data/*.tmp")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileMedium_BacksStore(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()

	first := newStore(history.NewFileMedium(fsys, "/data"))
	id, ok := first.Append(ctx, request("persisted"), nil, nil, nil)
	require.True(t, ok)

	reopened := newStore(history.NewFileMedium(fsys, "/data"))
	rec, found := reopened.Get(ctx, id)
	require.True(t, found)
	assert.Equal(t, "persisted", rec.Prompt)
}

func TestSQLiteMedium(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	m, err := history.NewSQLiteMedium(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	exerciseMedium(t, m, history.DefaultKey)
}

func TestNewSQLiteMedium_MigrationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// a view squatting on the table name makes the migration fail
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE VIEW history_blobs AS SELECT 'k' AS name").Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	m, err := history.NewSQLiteMedium(path)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "failed to migrate sqlite")

	// the failed open left nothing holding the file
	require.NoError(t, os.Remove(path))
}

func TestRedisMedium(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	m, err := history.NewRedisMedium(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	exerciseMedium(t, m, "designctl_test_"+strconv.FormatInt(int64(os.Getpid()), 10))
}

func TestNewRedisMedium_RequiresAddress(t *testing.T) {
	_, err := history.NewRedisMedium(context.Background(), "", "", 0)
	assert.Error(t, err)
}
