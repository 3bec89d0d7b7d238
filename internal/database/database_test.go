package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestRebind(t *testing.T) {
	pg := &DB{Driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	my := &DB{Driver: DriverMySQL}
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", my.Rebind("SELECT * FROM t WHERE a = ?"))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(context.Background(), db))
}

func TestInsert_ReturnsID(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	id1, err := db.Insert(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "a", "a@example.com", "x")
	require.NoError(t, err)
	id2, err := db.Insert(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "b", "b@example.com", "x")
	require.NoError(t, err)

	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)
}

func TestIsUniqueViolation(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.Insert(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "a", "dup@example.com", "x")
	require.NoError(t, err)
	_, err = db.Insert(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "b", "dup@example.com", "x")
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(assert.AnError))
}

func TestTruncate(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	_, err := db.Insert(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)", "a", "a@example.com", "x")
	require.NoError(t, err)
	require.NoError(t, Truncate(ctx, db))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteLowerHandlesUnicode(t *testing.T) {
	db := openMemory(t)

	var got string
	require.NoError(t, db.QueryRow("SELECT LOWER(?)", "Ärger mit ÜBERWEISUNG").Scan(&got))
	assert.Equal(t, "ärger mit überweisung", got)

	var matched bool
	require.NoError(t, db.QueryRow("SELECT LOWER(?) LIKE ?", "ÇA VA", "%ça%").Scan(&matched))
	assert.True(t, matched)
}
