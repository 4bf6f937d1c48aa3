package migration

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"
)

// migrationManagerImpl implements the MigrationManager interface
type migrationManagerImpl struct {
	scanner  FileScanner
	executor Executor
	fsys     fs.FS
	config   MigrationConfig
	logger   *slog.Logger
}

// NewMigrationManager creates a MigrationManager reading migrations from
// config.MigrationDir inside fsys.
func NewMigrationManager(scanner FileScanner, executor Executor, fsys fs.FS, config MigrationConfig, logger *slog.Logger) MigrationManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &migrationManagerImpl{
		scanner:  scanner,
		executor: executor,
		fsys:     fsys,
		config:   config,
		logger:   logger.With("component", "migration"),
	}
}

// RunMigrations executes all pending migrations in sequential order
func (m *migrationManagerImpl) RunMigrations(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.InfoContext(ctx, "migrations disabled")
		return nil
	}
	start := time.Now()

	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	pending, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending migrations: %w", err)
	}
	if len(pending) == 0 {
		m.logger.InfoContext(ctx, "database schema up to date")
		return nil
	}

	m.logger.InfoContext(ctx, "applying migrations", "pending_count", len(pending))

	for i, migration := range pending {
		logger := m.logger.With(
			"version", migration.Version,
			"description", migration.Description,
			"position", i+1,
		)

		migrationStart := time.Now()
		execCtx := ctx
		var cancel context.CancelFunc
		if m.config.TimeoutPerFile > 0 {
			execCtx, cancel = context.WithTimeout(ctx, m.config.TimeoutPerFile)
		}
		err := m.executor.ExecuteMigration(execCtx, migration)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			logger.ErrorContext(ctx, "migration failed", "error", err)
			return NewMigrationError(migration.Version, migration.FilePath,
				"execute migration", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
		}

		elapsed := time.Since(migrationStart)
		if err := m.executor.RecordMigration(ctx, migration, elapsed); err != nil {
			logger.ErrorContext(ctx, "failed to record migration", "error", err)
			return NewMigrationError(migration.Version, migration.FilePath,
				"record migration", fmt.Errorf("failed to record migration: %w", err))
		}
		logger.InfoContext(ctx, "migration applied", "duration", elapsed)
	}

	m.logger.InfoContext(ctx, "migrations completed", "applied_count", len(pending), "duration", time.Since(start))
	return nil
}

// GetPendingMigrations returns list of migrations that need to be applied
func (m *migrationManagerImpl) GetPendingMigrations(ctx context.Context) ([]Migration, error) {
	available, err := m.scanner.ScanMigrations(m.fsys, m.config.MigrationDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations: %w", err)
	}

	applied, err := m.executor.GetAppliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied versions: %w", err)
	}

	if err := m.validateSequence(available, applied); err != nil {
		return nil, fmt.Errorf("migration sequence validation failed: %w", err)
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, a := range applied {
		appliedSet[a.Version] = true
	}

	var pending []Migration
	for _, migration := range available {
		if !appliedSet[migration.Version] {
			pending = append(pending, migration)
		}
	}
	sortByVersion(pending)
	return pending, nil
}

// GetMigrationStatus returns status information about migrations
func (m *migrationManagerImpl) GetMigrationStatus(ctx context.Context) (*MigrationStatus, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize version table: %w", err)
	}
	applied, err := m.executor.GetAppliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	pending, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return nil, err
	}

	current := ""
	highest := -1
	for _, a := range applied {
		if v, err := strconv.Atoi(a.Version); err == nil && v > highest {
			highest = v
			current = a.Version
		}
	}

	return &MigrationStatus{
		CurrentVersion:    current,
		PendingCount:      len(pending),
		AppliedMigrations: applied,
		PendingMigrations: pending,
	}, nil
}

// validateSequence rejects gaps in the available versions, applied versions
// without a file and, when enabled, applied files whose content changed.
func (m *migrationManagerImpl) validateSequence(available []Migration, applied []AppliedMigration) error {
	byVersion := make(map[int]Migration, len(available))
	lowest, highest := -1, -1
	for _, migration := range available {
		v, err := strconv.Atoi(migration.Version)
		if err != nil {
			return NewMigrationError(migration.Version, migration.FilePath, "validate sequence",
				fmt.Errorf("%w: version is not numeric", ErrInvalidMigrationFile))
		}
		byVersion[v] = migration
		if lowest == -1 || v < lowest {
			lowest = v
		}
		if v > highest {
			highest = v
		}
	}

	for v := lowest; lowest != -1 && v <= highest; v++ {
		if _, ok := byVersion[v]; !ok {
			return fmt.Errorf("%w: missing migration version %03d in sequence", ErrVersionConflict, v)
		}
	}

	for _, a := range applied {
		v, err := strconv.Atoi(a.Version)
		if err != nil {
			return fmt.Errorf("%w: applied version '%s' is not numeric", ErrVersionConflict, a.Version)
		}
		migration, ok := byVersion[v]
		if !ok {
			return fmt.Errorf("%w: applied migration %s not found in available migrations", ErrVersionConflict, a.Version)
		}
		if m.config.VerifyChecksum && a.Checksum != "" && a.Checksum != migration.Checksum {
			return NewMigrationError(a.Version, migration.FilePath, "verify checksum", ErrChecksumMismatch)
		}
	}
	return nil
}
