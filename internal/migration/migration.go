package migration

import (
	"context"

	"luckystat/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

type step struct {
	version    string
	statements []string
}

// The statements stay within the SQL shared by PostgreSQL and SQLite.
var steps = []step{
	{
		version: "001_number_stats",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS number_stats (
				number INTEGER PRIMARY KEY CHECK (number BETWEEN 1 AND 45),
				occurrences INTEGER NOT NULL DEFAULT 0 CHECK (occurrences >= 0),
				updated_at TIMESTAMP NOT NULL
			)`,
		},
	},
	{
		version: "002_generation_results",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS generation_results (
				slot VARCHAR(16) PRIMARY KEY,
				id VARCHAR(36) NOT NULL,
				week_year INTEGER NOT NULL,
				week_number INTEGER NOT NULL,
				boundary TIMESTAMP NOT NULL,
				seed BIGINT NOT NULL,
				sets TEXT NOT NULL,
				bonuses TEXT,
				generated_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_generation_results_week ON generation_results (week_year, week_number)`,
		},
	},
}

// Tables lists every table the migrations create, in creation order
var Tables = []string{"number_stats", "generation_results"}

// MigrationRunner applies the schema steps not yet recorded in schema_migrations
type MigrationRunner struct {
	steps []step
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{steps: steps}
}

// Version returns the newest schema version this runner knows
func (r *MigrationRunner) Version() string {
	return r.steps[len(r.steps)-1].version
}

// Run executes all pending migrations in order, each in its own transaction
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(64) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.DatabaseError("failed to create schema_migrations table", err)
	}

	for _, s := range r.steps {
		var applied int
		if err := db.GetContext(ctx, &applied, db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`), s.version); err != nil {
			return errors.DatabaseError("failed to read schema_migrations", err)
		}
		if applied > 0 {
			continue
		}
		if err := r.apply(ctx, db, s); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", s.version)
		}
	}
	return nil
}

func (r *MigrationRunner) apply(ctx context.Context, db *sqlx.DB, s step) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	for _, stmt := range s.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.DatabaseError("execute statement", err)
		}
	}
	if _, err := tx.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), s.version); err != nil {
		return errors.DatabaseError("record version", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("commit migration", err)
	}
	return nil
}

// Reset drops every table including schema_migrations, newest first
func Reset(ctx context.Context, db *sqlx.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Tables[i]); err != nil {
			return errors.DatabaseError("failed to drop table "+Tables[i], err)
		}
	}
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return errors.DatabaseError("failed to drop table schema_migrations", err)
	}
	return nil
}
