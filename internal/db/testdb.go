package db

import (
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory database with the schema applied. Tests
// exercise the same memory-resident setup the server runs with.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
