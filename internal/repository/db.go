package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Database wraps the shared connection pool of the SQL backends.
type Database struct {
	db     *sqlx.DB
	driver string
}

// Open connects to Postgres or SQLite and verifies the connection.
func Open(driver, dsn string, maxConn, maxIdleConn int) (*Database, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		// one writer at a time; sqlite serializes anyway and this avoids SQLITE_BUSY
		maxConn, maxIdleConn = 1, 1
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{db: db, driver: driver}, nil
}

// Driver returns the driver name the database was opened with.
func (d *Database) Driver() string { return d.driver }

// IsPostgres reports whether pgvector features are available.
func (d *Database) IsPostgres() bool { return d.driver == DriverPostgres }

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_sessions (
		user_id    TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		kind        TEXT NOT NULL,
		listing_key TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		created_at  BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_listing_key ON activities (listing_key)`,
	`CREATE TABLE IF NOT EXISTS outbox_messages (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		sender      TEXT NOT NULL,
		recipient   TEXT NOT NULL,
		subject     TEXT NOT NULL,
		body        TEXT NOT NULL,
		listing_key TEXT NOT NULL,
		created_at  BIGINT NOT NULL
	)`,
}

// Migrate creates the tables used by the SQL stores.
func (d *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
