package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const schemaTable = "schema_migrations"

const createSchemaTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// MigrationStatus reports whether one embedded migration has been applied.
type MigrationStatus struct {
	File      string
	AppliedAt *time.Time
}

type Migrator struct {
	db *DB
}

func NewMigrator(db *DB) *Migrator {
	return &Migrator{db: db}
}

// Run applies, in file name order, every embedded migration not yet
// recorded in schema_migrations. Each file runs in its own transaction
// together with its bookkeeping row.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createSchemaTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", schemaTable, err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	files, err := MigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	for _, file := range files {
		if _, done := applied[file]; done {
			logger.WithField("file", file).Debug("Migration already applied")
			continue
		}
		if err := m.apply(ctx, file); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}

// Status lists every embedded migration with its applied time, if any.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	files, err := MigrationFiles()
	if err != nil {
		return nil, err
	}

	exists, err := m.db.TableExists(ctx, schemaTable)
	if err != nil {
		return nil, err
	}
	applied := map[string]time.Time{}
	if exists {
		if applied, err = m.applied(ctx); err != nil {
			return nil, err
		}
	}

	statuses := make([]MigrationStatus, len(files))
	for i, f := range files {
		statuses[i].File = f
		if at, ok := applied[f]; ok {
			statuses[i].AppliedAt = &at
		}
	}
	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]time.Time, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT filename, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", schemaTable, err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var file string
		var at time.Time
		if err := rows.Scan(&file, &at); err != nil {
			return nil, err
		}
		applied[file] = at
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, filename string) error {
	content, err := fs.ReadFile(migrationsFS, "migrations/"+filename)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	logger.WithField("file", filename).Info("Executing migration")

	return RunInTx(ctx, m.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute SQL: %w", err)
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, filename)
		return err
	})
}

// MigrationFiles lists the embedded migrations in the order Run applies them.
func MigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}
