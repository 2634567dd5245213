package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	// goqu dialects
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	// pgx registers itself as "pgx". lib/pq, mysql and sqlite3 are registered
	// through their imports in errors.go.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

const (
	tableBooks   = "books"
	tableMembers = "members"
	tableBorrows = "borrow_records"
)

// Config holds connection pool settings.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// dialectFor maps a database/sql driver name to its goqu dialect.
func dialectFor(driver string) (string, error) {
	switch driver {
	case DriverPgx, DriverPostgres:
		return "postgres", nil
	case DriverMySQL:
		return "mysql", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if cfg.Driver == DriverSQLite {
		dsn = withSQLiteDefaults(dsn)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// sqliteDefaults are the connection parameters the schema and the borrow
// workflow rely on: enforced foreign keys for restrict-delete, a busy timeout
// so writers queue instead of failing, and BEGIN IMMEDIATE in place of the
// row lock SQLite lacks. Each entry lists the driver's aliases for the key.
var sqliteDefaults = []struct {
	keys  []string
	value string
}{
	{[]string{"_foreign_keys", "_fk"}, "1"},
	{[]string{"_busy_timeout", "_timeout"}, "5000"},
	{[]string{"_txlock"}, "immediate"},
}

// withSQLiteDefaults adds every sqliteDefaults parameter the DSN does not set.
// Values given explicitly are kept.
func withSQLiteDefaults(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dsn
	}
	for _, d := range sqliteDefaults {
		set := false
		for _, k := range d.keys {
			if q.Has(k) {
				set = true
				break
			}
		}
		if !set {
			q.Set(d.keys[0], d.value)
		}
	}
	return base + "?" + q.Encode()
}

// Store hands out sessions backed by one pooled connection each.
type Store struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	name    string
}

// New wraps an open pool. The dialect is derived from the pool's driver name.
func New(db *sqlx.DB) (*Store, error) {
	name, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dialect: goqu.Dialect(name), name: name}, nil
}

// DB exposes the pool for health checks and shutdown.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect reports the goqu dialect name in use.
func (s *Store) Dialect() string {
	return s.name
}
