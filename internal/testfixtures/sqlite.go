package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/church-registry/internal/persistence"
	"github.com/example/church-registry/internal/persistence/sqlite"
	"github.com/example/church-registry/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Store *sqlite.Store

	Catalog          persistence.CatalogRepository
	Pessoas          persistence.PessoaRepository
	Sociedades       persistence.SociedadeRepository
	PessoaSociedades persistence.PessoaSociedadeRepository
	Eventos          persistence.EventoRepository
	Conselho         persistence.ConselhoRepository
	Usuarios         persistence.UsuarioRepository
	Dashboard        persistence.DashboardRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "cadastro.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.Open(context.Background(), migration.TempFileTestSQLiteConfig(path), logger)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	harness := &SQLiteHarness{
		Store:            store,
		Catalog:          store.Catalog,
		Pessoas:          store.Pessoas,
		Sociedades:       store.Sociedades,
		PessoaSociedades: store.PessoaSociedades,
		Eventos:          store.Eventos,
		Conselho:         store.Conselho,
		Usuarios:         store.Usuarios,
		Dashboard:        store.Dashboard,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
