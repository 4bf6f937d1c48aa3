package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/config"
	httptransport "github.com/example/church-registry/internal/http"
	"github.com/example/church-registry/internal/logging"
	"github.com/example/church-registry/internal/metrics"
	"github.com/example/church-registry/internal/objectstore"
	"github.com/example/church-registry/internal/persistence"
	"github.com/example/church-registry/internal/persistence/sqlite"
	"github.com/example/church-registry/internal/persistence/sqlite/migration"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("registry API listening", "addr", server.Addr, "storage", cfg.StorageBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	storage *sqlite.Store
	handler http.Handler
}

func (a *app) Close() error {
	return a.storage.Close()
}

// newApp opens and migrates the database, then wires services, handlers
// and middleware into one handler.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	storage, err := sqlite.Open(ctx, migration.DefaultSQLiteConfig(cfg.SQLiteDSN), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store, files, err := newObjectStore(cfg)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	now := time.Now
	catalog := application.NewCatalogServiceWithLogger(storage.Catalog, now, logger)
	collectors := metrics.New()

	limiter := httptransport.NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst, logger)
	limiter.TrustProxies(cfg.TrustedProxies...)
	limiter.OnReject(func() { collectors.RecordLogin("throttled") })

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		TipoPessoa: httptransport.NewCatalogHandler(catalog, persistence.TipoPessoaCatalog, logger),
		TipoEvento: httptransport.NewCatalogHandler(catalog, persistence.TipoEventoCatalog, logger),
		Cargos:     httptransport.NewCatalogHandler(catalog, persistence.CargoCatalog, logger),
		Pessoas: httptransport.NewPessoaHandler(
			application.NewPessoaServiceWithLogger(storage.Pessoas, now, logger), logger),
		Sociedades: httptransport.NewSociedadeHandler(
			application.NewSociedadeServiceWithLogger(storage.Sociedades, now, logger), logger),
		PessoaSociedades: httptransport.NewPessoaSociedadeHandler(
			application.NewPessoaSociedadeServiceWithLogger(storage.PessoaSociedades, now, logger), logger),
		Eventos: httptransport.NewEventoHandler(
			application.NewEventoServiceWithLogger(storage.Eventos, now, logger), logger),
		Conselho: httptransport.NewConselhoHandler(
			application.NewConselhoServiceWithLogger(storage.Conselho, now, logger), logger),
		Usuarios: httptransport.NewUsuarioHandler(
			application.NewUsuarioServiceWithLogger(storage.Usuarios, application.NewBcryptHasher(cfg.BcryptCost), now, logger), logger),
		Auth: httptransport.NewAuthHandler(
			application.NewAuthServiceWithLogger(storage.Usuarios, storage.Pessoas, nil, now, logger), collectors, logger),
		Uploads: httptransport.NewUploadHandler(
			application.NewUploadServiceWithLogger(store, storage.Pessoas, storage.Eventos, now, logger), cfg.MaxUploadBytes, collectors, logger),
		Dashboard: httptransport.NewDashboardHandler(
			application.NewDashboardServiceWithLogger(storage.Dashboard, now, logger), logger),
		Instrument:   collectors.Middleware,
		Metrics:      collectors.Handler(),
		Files:        files,
		LoginLimiter: limiter,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recover(logger),
			httptransport.CORS(cfg.CORSOrigins),
		},
		Logger: logger,
	})

	return &app{storage: storage, handler: handler}, nil
}

// newObjectStore returns the configured store and, for the local backend,
// the handler serving its files.
func newObjectStore(cfg config.Config) (objectstore.Store, http.Handler, error) {
	switch cfg.StorageBackend {
	case config.StorageSupabase:
		store, err := objectstore.NewSupabaseStore(objectstore.SupabaseConfig{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		store, err := objectstore.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Handler(), nil
	}
}
