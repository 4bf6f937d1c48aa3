package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration represents a database migration with its metadata and SQL content
type Migration struct {
	Version     string // Version identifier (e.g., "001", "002")
	Description string // Human-readable description of the migration
	SQL         string // SQL statements to execute
	FilePath    string // Path of the migration inside its filesystem
	Checksum    string // SHA-256 of the SQL content
}

// MigrationManager orchestrates the migration process
type MigrationManager interface {
	// RunMigrations executes all pending migrations in sequential order
	RunMigrations(ctx context.Context) error

	// GetPendingMigrations returns list of migrations that need to be applied
	GetPendingMigrations(ctx context.Context) ([]Migration, error)

	// GetMigrationStatus returns status information about migrations
	GetMigrationStatus(ctx context.Context) (*MigrationStatus, error)
}

// FileScanner reads migration files from a filesystem
type FileScanner interface {
	// ScanMigrations returns the migrations found in dir, ordered by version
	ScanMigrations(fsys fs.FS, dir string) ([]Migration, error)

	// ValidateFileName checks if migration file follows naming convention
	ValidateFileName(filename string) error
}

// Executor handles the actual execution of migrations against the database
type Executor interface {
	// ExecuteMigration runs a single migration within a transaction
	ExecuteMigration(ctx context.Context, migration Migration) error

	// InitializeVersionTable creates the schema_migrations table if it doesn't exist
	InitializeVersionTable(ctx context.Context) error

	// RecordMigration records a successful migration in the version tracking table
	RecordMigration(ctx context.Context, migration Migration, executionTime time.Duration) error

	// GetAppliedVersions returns all applied migration versions with timestamps
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}

// MigrationStatus provides information about the current migration state
type MigrationStatus struct {
	CurrentVersion    string
	PendingCount      int
	AppliedMigrations []AppliedMigration
	PendingMigrations []Migration
}

// AppliedMigration represents a migration that has been successfully applied
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}
