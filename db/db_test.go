package db_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habedi/tixshell/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitDB tests the initialization of the database.
// It sets up a temporary directory, initializes the database, and checks if the database file is created successfully.
func TestInitDB(t *testing.T) {
	tempDir := t.TempDir()
	db.Path = filepath.Join(tempDir, ".tixshell/credentials.db")
	err := db.InitDB()
	require.NoError(t, err, "InitDB should not return an error")

	_, statErr := os.Stat(db.Path)
	assert.NoError(t, statErr, "Database file should exist")

	closeErr := db.CloseDB()
	assert.NoError(t, closeErr, "CloseDB should not return an error")
}

// TestCloseDB_Uninitialized ensures CloseDB tolerates a nil connection.
func TestCloseDB_Uninitialized(t *testing.T) {
	db.Db = nil
	assert.NoError(t, db.CloseDB())
}

func TestOpen_MigratesCredentialTable(t *testing.T) {
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	assert.True(t, conn.Migrator().HasTable(&db.Credential{}))
}
