// Package integrationtest provides db helpers used in store and integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"

	// DuckDB driver registration.
	_ "github.com/marcboeker/go-duckdb"
)

// DefaultDataset is the raw dataset schema used in tests.
const DefaultDataset = "akahu_prod"

// SetupDB opens an in-memory DuckDB store with all tables and views created.
//
// Once the test is complete, it closes the db connection.
func SetupDB(t *testing.T) (*sql.DB, storeschema.Tables) {
	t.Helper()

	db, err := dbpkg.Setup(dbpkg.DriverDuckDB, "")
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return db, Migrate(t, db, "")
}

// FileSource returns a DuckDB source inside a temporary directory of the test.
// The file does not exist until a store is opened on it.
func FileSource(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), "data", "akahu_finance.duckdb")
}

// SetupFileDB creates a DuckDB store file at source with all tables and views
// under viewSchema, and closes it so another pool can open the file.
func SetupFileDB(t *testing.T, source, viewSchema string) storeschema.Tables {
	t.Helper()

	db, err := dbpkg.Setup(dbpkg.DriverDuckDB, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}
	defer db.Close()

	return Migrate(t, db, viewSchema)
}

// Migrate creates the tables and views and returns the resolved Tables.
func Migrate(t *testing.T, db *sql.DB, viewSchema string) storeschema.Tables {
	t.Helper()

	tables, err := storeschema.New(DefaultDataset, viewSchema)
	if err != nil {
		t.Fatalf("storeschema.New() failed: %v", err)
	}

	if err := storeschema.Migrate(context.Background(), db, tables); err != nil {
		t.Fatalf("storeschema.Migrate() failed: %v", err)
	}

	return tables
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the test is done it will rollback the transaction.
func SetupTX(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		// Already committed or rolled back transactions are fine.
		_ = tx.Rollback()
	})

	return tx
}
