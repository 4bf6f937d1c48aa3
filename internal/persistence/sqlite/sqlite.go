package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/church-registry/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store bundles the SQLite repositories over a single connection pool.
type Store struct {
	pool *ConnectionPool

	Catalog          *CatalogRepository
	Pessoas          *PessoaRepository
	Sociedades       *SociedadeRepository
	PessoaSociedades *PessoaSociedadeRepository
	Eventos          *EventoRepository
	Conselho         *ConselhoRepository
	Usuarios         *UsuarioRepository
	Dashboard        *DashboardRepository
}

// Open connects to the database described by config and applies the
// embedded schema migrations before returning the store.
func Open(ctx context.Context, config migration.SQLiteConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	store := NewStore(pool)
	if err := store.Migrate(ctx, logger); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wires every repository to pool without touching the schema.
func NewStore(pool *ConnectionPool) *Store {
	return &Store{
		pool:             pool,
		Catalog:          NewCatalogRepository(pool),
		Pessoas:          NewPessoaRepository(pool),
		Sociedades:       NewSociedadeRepository(pool),
		PessoaSociedades: NewPessoaSociedadeRepository(pool),
		Eventos:          NewEventoRepository(pool),
		Conselho:         NewConselhoRepository(pool),
		Usuarios:         NewUsuarioRepository(pool),
		Dashboard:        NewDashboardRepository(pool),
	}
}

// Migrate applies pending migrations from the embedded migrations directory.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	manager := migration.NewMigrationManager(
		migration.NewFileScanner(),
		migration.NewSQLiteExecutor(s.pool.DB().DB, logger),
		migrationsFS,
		migration.DefaultMigrationConfig("migrations"),
		logger,
	)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}
