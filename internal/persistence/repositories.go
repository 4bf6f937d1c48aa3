package persistence

import (
	"context"
	"time"
)

// CatalogKind identifies one of the name-only lookup tables.
type CatalogKind struct {
	Table      string
	IDColumn   string
	NameColumn string
}

var (
	// TipoPessoaCatalog holds person types.
	TipoPessoaCatalog = CatalogKind{Table: "tipopessoa", IDColumn: "cdtipopessoa", NameColumn: "nmtipopessoa"}
	// TipoEventoCatalog holds event types.
	TipoEventoCatalog = CatalogKind{Table: "tipoevento", IDColumn: "cdtipoevento", NameColumn: "nmtipoevento"}
	// CargoCatalog holds the role types used on society memberships.
	CargoCatalog = CatalogKind{Table: "pessoatiposociedade", IDColumn: "cdpessoatiposociedade", NameColumn: "nmcargo"}
)

// CatalogRepository stores rows of the lookup tables.
type CatalogRepository interface {
	CreateCatalogItem(ctx context.Context, kind CatalogKind, item CatalogItem) (CatalogItem, error)
	UpdateCatalogItem(ctx context.Context, kind CatalogKind, item CatalogItem) (CatalogItem, error)
	GetCatalogItem(ctx context.Context, kind CatalogKind, id int64) (CatalogItem, error)
	ListCatalogItems(ctx context.Context, kind CatalogKind) ([]CatalogItem, error)
	DeleteCatalogItem(ctx context.Context, kind CatalogKind, id int64) error
}

// PessoaRepository stores people and serves their joined views.
type PessoaRepository interface {
	CreatePessoa(ctx context.Context, pessoa Pessoa) (Pessoa, error)
	UpdatePessoa(ctx context.Context, pessoa Pessoa) (Pessoa, error)
	GetPessoa(ctx context.Context, id int64) (Pessoa, error)
	SetPessoaPhoto(ctx context.Context, id int64, url string, at time.Time) error
	GetPessoaView(ctx context.Context, id int64) (PessoaView, error)
	ListPessoaViews(ctx context.Context, filter PessoaFilter) ([]PessoaView, error)
	ListPessoaLinks(ctx context.Context, pessoaID int64) ([]SociedadeLinkView, error)
}

// SociedadeRepository stores societies.
type SociedadeRepository interface {
	CreateSociedade(ctx context.Context, sociedade Sociedade) (Sociedade, error)
	UpdateSociedade(ctx context.Context, sociedade Sociedade) (Sociedade, error)
	GetSociedade(ctx context.Context, id int64) (Sociedade, error)
	SetSociedadeActive(ctx context.Context, id int64, active bool, at time.Time) (Sociedade, error)
	ListSociedades(ctx context.Context, filter SociedadeFilter) ([]Sociedade, error)
	ListSociedadeMembers(ctx context.Context, sociedadeID int64) ([]MembroView, error)
}

// PessoaSociedadeRepository stores membership links.
type PessoaSociedadeRepository interface {
	CreatePessoaSociedade(ctx context.Context, link PessoaSociedade) (PessoaSociedade, error)
	UpdatePessoaSociedade(ctx context.Context, link PessoaSociedade) (PessoaSociedade, error)
	GetPessoaSociedade(ctx context.Context, id int64) (PessoaSociedade, error)
}

// EventoRepository stores events and serves their joined views.
type EventoRepository interface {
	CreateEvento(ctx context.Context, evento Evento) (Evento, error)
	UpdateEvento(ctx context.Context, evento Evento) (Evento, error)
	GetEvento(ctx context.Context, id int64) (Evento, error)
	SetEventoActive(ctx context.Context, id int64, active bool, at time.Time) (Evento, error)
	SetEventoImage(ctx context.Context, id int64, url string, at time.Time) error
	GetEventoView(ctx context.Context, id int64) (EventoView, error)
	ListEventoViews(ctx context.Context, filter EventoFilter) ([]EventoView, error)
}

// ConselhoRepository stores council entries.
type ConselhoRepository interface {
	CreateConselho(ctx context.Context, entry Conselho) (Conselho, error)
	UpdateConselho(ctx context.Context, entry Conselho) (Conselho, error)
	GetConselho(ctx context.Context, id int64) (Conselho, error)
	DeleteConselho(ctx context.Context, id int64) error
	FindActiveConselhoByPessoa(ctx context.Context, pessoaID int64) (Conselho, error)
	GetConselhoView(ctx context.Context, id int64) (ConselhoView, error)
	ListConselhoViews(ctx context.Context) ([]ConselhoView, error)
}

// UsuarioRepository stores login accounts.
type UsuarioRepository interface {
	CreateUsuario(ctx context.Context, usuario Usuario) (Usuario, error)
	UpdateUsuario(ctx context.Context, usuario Usuario) (Usuario, error)
	GetUsuario(ctx context.Context, id int64) (Usuario, error)
	GetUsuarioByLogin(ctx context.Context, login string) (Usuario, error)
	SetUsuarioActive(ctx context.Context, id int64, active bool, at time.Time) (Usuario, error)
	TouchUsuarioLastAccess(ctx context.Context, id int64, at time.Time) error
	ListUsuarios(ctx context.Context, filter UsuarioFilter) ([]Usuario, error)
}

// DashboardRepository answers the aggregate questions of the dashboard.
type DashboardRepository interface {
	CountActivePessoas(ctx context.Context) (int, error)
	CountActiveEventosBetween(ctx context.Context, from, to string) (int, error)
	CountBirthdaysInMonth(ctx context.Context, month time.Month) (int, error)
	CountActiveConselho(ctx context.Context) (int, error)
	ListSociedadeMemberCounts(ctx context.Context) ([]SociedadeMemberCount, error)
}
