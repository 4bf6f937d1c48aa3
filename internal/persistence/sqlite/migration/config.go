package migration

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig holds SQLite-specific database configuration
type SQLiteConfig struct {
	// DSN is the database file path or a file: URI
	DSN string

	// BusyTimeout sets how long to wait for database locks
	BusyTimeout time.Duration

	// EnableForeignKeys enables foreign key constraint checking
	EnableForeignKeys bool

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, etc.)
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF)
	Synchronous string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MigrationConfig holds migration-specific configuration
type MigrationConfig struct {
	// MigrationDir is the directory holding the *.sql files inside the migration filesystem
	MigrationDir string

	// Enabled controls whether migrations should run
	Enabled bool

	// TimeoutPerFile bounds the execution of each migration file
	TimeoutPerFile time.Duration

	// VerifyChecksum rejects applied migrations whose file content changed
	VerifyChecksum bool
}

// ConnectionManager opens configured SQLite connections
type ConnectionManager interface {
	GetConnection() (*sql.DB, error)
	ValidateConfig() error
}

type sqliteConnectionManager struct {
	config SQLiteConfig
}

// NewConnectionManager creates a new SQLite connection manager
func NewConnectionManager(config SQLiteConfig) ConnectionManager {
	return &sqliteConnectionManager{config: config}
}

// GetConnection returns a configured SQLite database connection. Pragmas are
// passed through the DSN so that every pooled connection receives them.
func (cm *sqliteConnectionManager) GetConnection() (*sql.DB, error) {
	if err := cm.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid SQLite configuration: %w", err)
	}
	if err := cm.ensureDirectory(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cm.dsnWithPragmas())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	maxOpen := cm.config.MaxOpenConns
	if cm.isMemory() {
		// each connection to :memory: is a separate database
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cm.config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cm.config.MaxIdleConns)
	}
	if cm.config.ConnMaxLifetime > 0 && !cm.isMemory() {
		db.SetConnMaxLifetime(cm.config.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return db, nil
}

func (cm *sqliteConnectionManager) dsnWithPragmas() string {
	pragmas := url.Values{}
	if cm.config.BusyTimeout > 0 {
		pragmas.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cm.config.BusyTimeout.Milliseconds()))
	}
	if cm.config.EnableForeignKeys {
		pragmas.Add("_pragma", "foreign_keys(1)")
	}
	if cm.config.JournalMode != "" && !cm.isMemory() {
		pragmas.Add("_pragma", fmt.Sprintf("journal_mode(%s)", cm.config.JournalMode))
	}
	if cm.config.Synchronous != "" {
		pragmas.Add("_pragma", fmt.Sprintf("synchronous(%s)", cm.config.Synchronous))
	}
	if len(pragmas) == 0 {
		return cm.config.DSN
	}

	separator := "?"
	if strings.Contains(cm.config.DSN, "?") {
		separator = "&"
	}
	return cm.config.DSN + separator + pragmas.Encode()
}

func (cm *sqliteConnectionManager) isMemory() bool {
	return strings.Contains(cm.config.DSN, ":memory:") || strings.Contains(cm.config.DSN, "mode=memory")
}

// filePath extracts the filesystem path from a plain path or file: URI.
func (cm *sqliteConnectionManager) filePath() string {
	p := strings.TrimPrefix(cm.config.DSN, "file:")
	if idx := strings.Index(p, "?"); idx != -1 {
		p = p[:idx]
	}
	return p
}

func (cm *sqliteConnectionManager) ensureDirectory() error {
	if cm.isMemory() {
		return nil
	}
	dir := filepath.Dir(cm.filePath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// ValidateConfig validates the SQLite configuration
func (cm *sqliteConnectionManager) ValidateConfig() error {
	if strings.TrimSpace(cm.config.DSN) == "" {
		return fmt.Errorf("DSN cannot be empty")
	}
	if cm.config.BusyTimeout < 0 {
		return fmt.Errorf("BusyTimeout cannot be negative")
	}

	validJournalModes := map[string]bool{"DELETE": true, "TRUNCATE": true, "PERSIST": true, "MEMORY": true, "WAL": true, "OFF": true}
	if cm.config.JournalMode != "" && !validJournalModes[cm.config.JournalMode] {
		return fmt.Errorf("invalid journal mode: %s", cm.config.JournalMode)
	}

	validSyncModes := map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}
	if cm.config.Synchronous != "" && !validSyncModes[cm.config.Synchronous] {
		return fmt.Errorf("invalid synchronous mode: %s", cm.config.Synchronous)
	}

	if cm.config.MaxOpenConns < 0 || cm.config.MaxIdleConns < 0 || cm.config.ConnMaxLifetime < 0 {
		return fmt.Errorf("connection pool settings cannot be negative")
	}
	return nil
}

// DefaultSQLiteConfig returns a SQLite configuration with sensible defaults
func DefaultSQLiteConfig(dsn string) SQLiteConfig {
	return SQLiteConfig{
		DSN:               dsn,
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		JournalMode:       "WAL",
		Synchronous:       "NORMAL",
		MaxOpenConns:      8,
		MaxIdleConns:      4,
		ConnMaxLifetime:   5 * time.Minute,
	}
}

// TempFileTestSQLiteConfig returns a SQLite configuration for temporary file-based testing
func TempFileTestSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{
		DSN:               path,
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		JournalMode:       "MEMORY",
		Synchronous:       "OFF",
		MaxOpenConns:      1,
		MaxIdleConns:      1,
	}
}

// DefaultMigrationConfig returns a migration configuration with sensible defaults
func DefaultMigrationConfig(dir string) MigrationConfig {
	return MigrationConfig{
		MigrationDir:   dir,
		Enabled:        true,
		TimeoutPerFile: time.Minute,
		VerifyChecksum: true,
	}
}
