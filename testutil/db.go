// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when required environment
// variables are not set, so unit tests can run without Postgres or Redis.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/booze-cruise/backend/migrations"
)

const (
	// DatabaseURLEnv names the Postgres DSN used by integration tests.
	DatabaseURLEnv = "TEST_DATABASE_URL"
	// RedisURLEnv names the Redis URL used by cache integration tests.
	RedisURLEnv = "TEST_REDIS_URL"
)

// NewPool opens a *pgxpool.Pool connected to TEST_DATABASE_URL.
//
// The test is skipped automatically if TEST_DATABASE_URL is not set.
// The pool is closed automatically when the test (and all its subtests) finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireEnv(t, DatabaseURLEnv)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewTx opens a transaction on a fresh pool and rolls it back when the test
// finishes, so every test sees the schema empty of its neighbours' rows.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// NewSQLDB opens a *sql.DB connected to TEST_DATABASE_URL using the pgx
// database/sql driver, for callers such as goose that need database/sql.
// The connection is closed automatically when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQLDB(requireEnv(t, DatabaseURLEnv))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateFromEnv applies all migrations to TEST_DATABASE_URL. It is meant for
// TestMain, where no *testing.T is available: it does nothing when the
// variable is unset (each test then skips itself) and panics on failure.
func MigrateFromEnv() {
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		return
	}

	db, err := openSQLDB(dsn)
	if err != nil {
		panic("testutil.MigrateFromEnv: " + err.Error())
	}
	defer db.Close()

	if _, err := migrations.Up(context.Background(), db); err != nil {
		panic("testutil.MigrateFromEnv: " + err.Error())
	}
}

// RedisURL returns TEST_REDIS_URL, skipping the test when it is unset.
func RedisURL(t *testing.T) string {
	t.Helper()
	return requireEnv(t, RedisURLEnv)
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// requireEnv returns the value of key, skipping the test if it is not set.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
