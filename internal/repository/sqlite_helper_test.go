package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/octobees/placepack/api/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.MigrateSQLite(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
