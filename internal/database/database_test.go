package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer db.Close()

	for _, table := range []string{"kv_cache", "metrics", "snapshots"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotentOnExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoreboard.db")

	db, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO kv_cache (key, value, updated_at) VALUES ('k', 'v', 1)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer db.Close()

	var value string
	require.NoError(t, db.QueryRow("SELECT value FROM kv_cache WHERE key = 'k'").Scan(&value))
	assert.Equal(t, "v", value)
}
