package testfixtures

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/objectstore"
	"golang.org/x/crypto/bcrypt"
)

// ServiceFactory assists tests with constructing application services using
// deterministic clocks and cheap password hashing.
type ServiceFactory struct {
	Clock  *Clock
	Hasher application.PasswordHasher
	Logger *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:  NewClock(time.Time{}),
		Hasher: application.NewBcryptHasher(bcrypt.MinCost),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Hasher == nil {
		factory.Hasher = application.NewBcryptHasher(bcrypt.MinCost)
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger overrides the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services groups every application service built over one harness.
type Services struct {
	Catalog          *application.CatalogService
	Pessoas          *application.PessoaService
	Sociedades       *application.SociedadeService
	PessoaSociedades *application.PessoaSociedadeService
	Eventos          *application.EventoService
	Conselho         *application.ConselhoService
	Usuarios         *application.UsuarioService
	Auth             *application.AuthService
	Uploads          *application.UploadService
	Dashboard        *application.DashboardService
}

// NewServices builds every service over the harness repositories. store
// may be nil when a test never uploads.
func (f *ServiceFactory) NewServices(h *SQLiteHarness, store objectstore.Store) Services {
	now := f.Clock.NowFunc()
	return Services{
		Catalog:          application.NewCatalogServiceWithLogger(h.Catalog, now, f.Logger),
		Pessoas:          application.NewPessoaServiceWithLogger(h.Pessoas, now, f.Logger),
		Sociedades:       application.NewSociedadeServiceWithLogger(h.Sociedades, now, f.Logger),
		PessoaSociedades: application.NewPessoaSociedadeServiceWithLogger(h.PessoaSociedades, now, f.Logger),
		Eventos:          application.NewEventoServiceWithLogger(h.Eventos, now, f.Logger),
		Conselho:         application.NewConselhoServiceWithLogger(h.Conselho, now, f.Logger),
		Usuarios:         application.NewUsuarioServiceWithLogger(h.Usuarios, f.Hasher, now, f.Logger),
		Auth:             application.NewAuthServiceWithLogger(h.Usuarios, h.Pessoas, nil, now, f.Logger),
		Uploads:          application.NewUploadServiceWithLogger(store, h.Pessoas, h.Eventos, now, f.Logger),
		Dashboard:        application.NewDashboardServiceWithLogger(h.Dashboard, now, f.Logger),
	}
}
