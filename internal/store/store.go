package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"

	"cropdoc/internal/diagnosis"
)

var ErrNotFound = diagnosis.ErrNotFound

// Open connects to Postgres when databaseURL is set, otherwise to an
// embedded sqlite file (field deployments run without a DB server).
// The second return reports whether the embedded engine is in use; the
// caller applies schema and seed data only in that case.
func Open(databaseURL, sqlitePath string) (*sql.DB, bool, error) {
	if databaseURL != "" {
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, false, fmt.Errorf("sql.Open pgx: %w", err)
		}
		// connection pool tune (load up to ~20 rps)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)
		return db, false, nil
	}

	db, err := sql.Open("sqlite3", sqlitePath)
	if err != nil {
		return nil, false, fmt.Errorf("sql.Open sqlite3: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, false, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, true, nil
}

// Ping verifies the connection with a short deadline.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
