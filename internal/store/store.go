package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and hands out repositories.
// SQLite is the default backend; a postgres:// DSN selects Postgres.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	x       *sqlx.DB
	dialect string
}

// Open connects to dsn, applies SQLite pragmas where relevant, and runs
// auto-migration.
func Open(dsn string) (*Store, error) {
	dialectName, driverName := detectDialect(dsn)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialectName == dialect.SQLite {
		// Pragmas are per connection; keep exactly one.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	} else if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	drv := entsql.OpenDB(dialectName, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{
		db:      db,
		drv:     drv,
		x:       sqlx.NewDb(db, bindDriverName(dialectName)),
		dialect: dialectName,
	}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports the SQL dialect in use ("sqlite3" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ConceptStore returns the grammar/vocabulary mastery store.
func (s *Store) ConceptStore() *ConceptStore {
	return &ConceptStore{s: s}
}

// LessonRepo returns a LessonRepo backed by this store.
func (s *Store) LessonRepo() LessonRepo {
	return &lessonRepo{s: s}
}

// ExerciseRepo returns an ExerciseRepo backed by this store.
func (s *Store) ExerciseRepo() ExerciseRepo {
	return &exerciseRepo{s: s}
}

// StatusRepo returns a StatusRepo backed by this store.
func (s *Store) StatusRepo() StatusRepo {
	return &statusRepo{s: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

func detectDialect(dsn string) (dialectName, driverName string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return dialect.Postgres, "pgx"
	}
	return dialect.SQLite, "sqlite"
}

// bindDriverName picks the driver name sqlx uses to choose its placeholder
// style. It is never used to open a connection.
func bindDriverName(dialectName string) string {
	if dialectName == dialect.Postgres {
		return "pgx"
	}
	return "sqlite3"
}

// applyPragmas configures SQLite for single-user server workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. HANMADI_DB environment variable
// 2. $XDG_DATA_HOME/hanmadi/hanmadi.db
// 3. ~/.local/share/hanmadi/hanmadi.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("HANMADI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "hanmadi", "hanmadi.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a SQLite path if it doesn't
// exist. Postgres DSNs are left alone.
func EnsureDir(path string) error {
	if d, _ := detectDialect(path); d == dialect.Postgres {
		return nil
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
