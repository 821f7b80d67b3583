package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"pedidos/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/pedidos_test?parseTime=true&clientFoundRows=true"

// SetupTestDB opens the MySQL test database named by PEDIDOS_TEST_DSN (or a
// local pedidos_test schema) and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("PEDIDOS_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema used by the service.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupTestDB empties the pedidos table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if db == nil {
		return
	}

	if _, err := db.Exec("DELETE FROM pedidos"); err != nil {
		t.Logf("failed to clean table pedidos: %v", err)
	}

	db.Close()
}
