package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SQLiteExecutor implements the Executor interface for SQLite databases
type SQLiteExecutor struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteExecutor creates a new SQLite migration executor
func NewSQLiteExecutor(db *sql.DB, logger *slog.Logger) *SQLiteExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteExecutor{db: db, logger: logger, now: time.Now}
}

// ExecuteMigration runs a single migration within a transaction
func (e *SQLiteExecutor) ExecuteMigration(ctx context.Context, migration Migration) (err error) {
	statements := splitStatements(migration.SQL)
	if len(statements) == 0 {
		return NewMigrationError(migration.Version, migration.FilePath, "parse SQL",
			fmt.Errorf("no SQL statements found in migration"))
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return NewDatabaseError(migration.Version, "begin transaction", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			e.logger.ErrorContext(ctx, "failed to rollback migration", "version", migration.Version, "error", rbErr)
		}
	}()

	for i, stmt := range statements {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			err = NewDatabaseError(migration.Version, fmt.Sprintf("execute statement %d", i+1), execErr)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = NewDatabaseError(migration.Version, "commit transaction", err)
		return err
	}
	return nil
}

// InitializeVersionTable creates the schema_migrations table if it doesn't exist
func (e *SQLiteExecutor) InitializeVersionTable(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			checksum TEXT,
			execution_time_ms INTEGER
		)`
	if _, err := e.db.ExecContext(ctx, ddl); err != nil {
		return NewDatabaseError("", "create schema_migrations table", err)
	}
	return nil
}

// RecordMigration records a successful migration in the version tracking table
func (e *SQLiteExecutor) RecordMigration(ctx context.Context, migration Migration, executionTime time.Duration) error {
	const insert = `
		INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms)
		VALUES (?, ?, ?, ?)`
	appliedAt := e.now().UTC().Format(time.RFC3339)
	if _, err := e.db.ExecContext(ctx, insert, migration.Version, appliedAt, migration.Checksum, executionTime.Milliseconds()); err != nil {
		return NewDatabaseError(migration.Version, "record migration", err)
	}
	return nil
}

// GetAppliedVersions returns all applied migration versions with timestamps
func (e *SQLiteExecutor) GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error) {
	const query = `
		SELECT version, applied_at, COALESCE(execution_time_ms, 0), COALESCE(checksum, '')
		FROM schema_migrations
		ORDER BY version ASC`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, NewDatabaseError("", "get applied versions", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			version, appliedAt, checksum string
			executionMs                  int64
		)
		if err := rows.Scan(&version, &appliedAt, &executionMs, &checksum); err != nil {
			return nil, NewDatabaseError("", "scan applied migration", err)
		}
		at, parseErr := time.Parse(time.RFC3339, appliedAt)
		if parseErr != nil {
			return nil, NewDatabaseError(version, "parse applied_at", parseErr)
		}
		applied = append(applied, AppliedMigration{
			Version:       version,
			AppliedAt:     at,
			ExecutionTime: time.Duration(executionMs) * time.Millisecond,
			Checksum:      checksum,
		})
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, NewDatabaseError("", "iterate applied migrations", err)
	}
	return applied, nil
}

// splitStatements splits SQL content on semicolons and drops comment-only
// fragments. Migrations must not contain semicolons inside literals or triggers.
func splitStatements(sql string) []string {
	var statements []string
	for _, fragment := range strings.Split(sql, ";") {
		if stmt := strings.TrimSpace(stripComments(fragment)); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
