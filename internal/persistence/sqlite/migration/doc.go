// Package migration applies versioned SQL migrations to a SQLite database.
//
// Migration files live in an fs.FS (usually an embed.FS) and follow the
// naming convention {version}_{description}.sql, e.g. "001_initial_schema.sql".
// Versions must form a continuous sequence. Each file runs inside its own
// transaction and is recorded, with its checksum, in the schema_migrations
// table so it is never applied twice.
//
// Example usage:
//
//	manager := migration.NewMigrationManager(migration.NewFileScanner(),
//		migration.NewSQLiteExecutor(db, logger), migrationsFS,
//		migration.DefaultMigrationConfig("migrations"), logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
