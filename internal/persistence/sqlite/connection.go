package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/church-registry/internal/persistence"
	"github.com/example/church-registry/internal/persistence/sqlite/migration"
)

// driverName selects sqlx's "?" bind style; the registered driver is modernc's "sqlite".
const driverName = "sqlite3"

// ConnectionPool manages SQLite database connections with transaction support
type ConnectionPool struct {
	db     *sqlx.DB
	config migration.SQLiteConfig
}

// NewConnectionPool creates a new SQLite connection pool
func NewConnectionPool(config migration.SQLiteConfig) (*ConnectionPool, error) {
	db, err := migration.NewConnectionManager(config).GetConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &ConnectionPool{db: sqlx.NewDb(db, driverName), config: config}, nil
}

// NewConnectionPoolFromDB wraps an already opened database handle.
func NewConnectionPoolFromDB(db *sql.DB) *ConnectionPool {
	return &ConnectionPool{db: sqlx.NewDb(db, driverName)}
}

// DB returns the underlying database connection
func (cp *ConnectionPool) DB() *sqlx.DB {
	return cp.db
}

// Close closes the connection pool
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc represents a function that executes within a transaction
type TransactionFunc func(tx *sqlx.Tx) error

// WithTransaction executes fn within a transaction, rolling back when fn
// returns an error or panics.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) (err error) {
	tx, err := cp.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryHelper runs queries against the pool and maps driver errors to
// persistence sentinels. Writes are retried while the database is locked.
type QueryHelper struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewQueryHelper creates a new query helper
func NewQueryHelper(pool *ConnectionPool) *QueryHelper {
	return &QueryHelper{pool: pool, mapper: NewErrorMapper(), retry: NewRetryHelper(DefaultRetryConfig())}
}

// Get scans a single row into dest.
func (qh *QueryHelper) Get(ctx context.Context, dest any, query string, args ...any) error {
	return qh.mapper.MapError(qh.pool.db.GetContext(ctx, dest, query, args...))
}

// Select scans all rows into dest, which must be a pointer to a slice.
func (qh *QueryHelper) Select(ctx context.Context, dest any, query string, args ...any) error {
	return qh.mapper.MapError(qh.pool.db.SelectContext(ctx, dest, query, args...))
}

// Transaction runs fn inside a transaction, retrying the whole unit while the
// database is locked. The returned error is mapped.
func (qh *QueryHelper) Transaction(ctx context.Context, fn TransactionFunc) error {
	return qh.retry.WithRetry(ctx, func() error {
		return qh.pool.WithTransaction(ctx, fn)
	})
}

// Exec executes a statement that doesn't return rows
func (qh *QueryHelper) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	err := qh.retry.WithRetry(ctx, func() error {
		var execErr error
		result, execErr = qh.pool.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return result, err
}

// Insert executes an INSERT and returns the generated row id.
func (qh *QueryHelper) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := qh.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// ExecAffectingOne executes a statement and reports persistence.ErrNotFound
// when no row was touched.
func (qh *QueryHelper) ExecAffectingOne(ctx context.Context, query string, args ...any) error {
	result, err := qh.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ErrorMapper maps SQLite errors to persistence layer errors
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrForeignKey, err)
	case containsAny(msg, "UNIQUE constraint failed", "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConflict, err)
	case containsAny(msg, "database is locked", "SQLITE_BUSY"):
		return fmt.Errorf("%w: %v", errDatabaseLocked, err)
	}
	return err
}

var errDatabaseLocked = errors.New("database locked")

func containsAny(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// RetryConfig configures retry behavior for database operations
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a retry configuration with sensible defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryHelper retries operations that failed because the database was locked
type RetryHelper struct {
	config RetryConfig
	mapper *ErrorMapper
}

// NewRetryHelper creates a new retry helper
func NewRetryHelper(config RetryConfig) *RetryHelper {
	return &RetryHelper{config: config, mapper: NewErrorMapper()}
}

// WithRetry executes fn, retrying with exponential backoff while the mapped
// error is a lock error. The returned error is always mapped.
func (rh *RetryHelper) WithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := rh.config.InitialDelay

	for attempt := 0; attempt <= rh.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * rh.config.BackoffFactor)
				if delay > rh.config.MaxDelay {
					delay = rh.config.MaxDelay
				}
			}
		}

		lastErr = rh.mapper.MapError(fn())
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, errDatabaseLocked) {
			return lastErr
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", rh.config.MaxRetries, lastErr)
}
