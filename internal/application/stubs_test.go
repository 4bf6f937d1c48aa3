package application

import (
	"context"
	"io"
	"time"

	"github.com/example/church-registry/internal/objectstore"
	"github.com/example/church-registry/internal/persistence"
)

var fixedNow = time.Date(2024, time.May, 20, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type catalogRepoStub struct {
	items     map[int64]persistence.CatalogItem
	nextID    int64
	deleteErr error
}

func newCatalogRepoStub() *catalogRepoStub {
	return &catalogRepoStub{items: map[int64]persistence.CatalogItem{}}
}

func (r *catalogRepoStub) CreateCatalogItem(_ context.Context, _ persistence.CatalogKind, item persistence.CatalogItem) (persistence.CatalogItem, error) {
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	return item, nil
}

func (r *catalogRepoStub) UpdateCatalogItem(_ context.Context, _ persistence.CatalogKind, item persistence.CatalogItem) (persistence.CatalogItem, error) {
	if _, ok := r.items[item.ID]; !ok {
		return persistence.CatalogItem{}, persistence.ErrNotFound
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *catalogRepoStub) GetCatalogItem(_ context.Context, _ persistence.CatalogKind, id int64) (persistence.CatalogItem, error) {
	item, ok := r.items[id]
	if !ok {
		return persistence.CatalogItem{}, persistence.ErrNotFound
	}
	return item, nil
}

func (r *catalogRepoStub) ListCatalogItems(context.Context, persistence.CatalogKind) ([]persistence.CatalogItem, error) {
	out := make([]persistence.CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *catalogRepoStub) DeleteCatalogItem(_ context.Context, _ persistence.CatalogKind, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type pessoaRepoStub struct {
	pessoas  map[int64]persistence.Pessoa
	links    []persistence.SociedadeLinkView
	nextID   int64
	stampErr error
	stamped  map[int64]string
	filter   persistence.PessoaFilter
}

func newPessoaRepoStub() *pessoaRepoStub {
	return &pessoaRepoStub{pessoas: map[int64]persistence.Pessoa{}, stamped: map[int64]string{}}
}

func (r *pessoaRepoStub) CreatePessoa(_ context.Context, pessoa persistence.Pessoa) (persistence.Pessoa, error) {
	r.nextID++
	pessoa.ID = r.nextID
	r.pessoas[pessoa.ID] = pessoa
	return pessoa, nil
}

func (r *pessoaRepoStub) UpdatePessoa(_ context.Context, pessoa persistence.Pessoa) (persistence.Pessoa, error) {
	if _, ok := r.pessoas[pessoa.ID]; !ok {
		return persistence.Pessoa{}, persistence.ErrNotFound
	}
	r.pessoas[pessoa.ID] = pessoa
	return pessoa, nil
}

func (r *pessoaRepoStub) GetPessoa(_ context.Context, id int64) (persistence.Pessoa, error) {
	pessoa, ok := r.pessoas[id]
	if !ok {
		return persistence.Pessoa{}, persistence.ErrNotFound
	}
	return pessoa, nil
}

func (r *pessoaRepoStub) SetPessoaPhoto(_ context.Context, id int64, url string, _ time.Time) error {
	if r.stampErr != nil {
		return r.stampErr
	}
	r.stamped[id] = url
	return nil
}

func (r *pessoaRepoStub) GetPessoaView(ctx context.Context, id int64) (persistence.PessoaView, error) {
	pessoa, err := r.GetPessoa(ctx, id)
	if err != nil {
		return persistence.PessoaView{}, err
	}
	return persistence.PessoaView{Pessoa: pessoa, Links: r.links}, nil
}

func (r *pessoaRepoStub) ListPessoaViews(_ context.Context, filter persistence.PessoaFilter) ([]persistence.PessoaView, error) {
	r.filter = filter
	out := []persistence.PessoaView{}
	for _, pessoa := range r.pessoas {
		out = append(out, persistence.PessoaView{Pessoa: pessoa})
	}
	return out, nil
}

func (r *pessoaRepoStub) ListPessoaLinks(context.Context, int64) ([]persistence.SociedadeLinkView, error) {
	return r.links, nil
}

type sociedadeRepoStub struct {
	sociedades map[int64]persistence.Sociedade
	members    []persistence.MembroView
	nextID     int64
}

func newSociedadeRepoStub() *sociedadeRepoStub {
	return &sociedadeRepoStub{sociedades: map[int64]persistence.Sociedade{}}
}

func (r *sociedadeRepoStub) CreateSociedade(_ context.Context, s persistence.Sociedade) (persistence.Sociedade, error) {
	r.nextID++
	s.ID = r.nextID
	r.sociedades[s.ID] = s
	return s, nil
}

func (r *sociedadeRepoStub) UpdateSociedade(_ context.Context, s persistence.Sociedade) (persistence.Sociedade, error) {
	if _, ok := r.sociedades[s.ID]; !ok {
		return persistence.Sociedade{}, persistence.ErrNotFound
	}
	r.sociedades[s.ID] = s
	return s, nil
}

func (r *sociedadeRepoStub) GetSociedade(_ context.Context, id int64) (persistence.Sociedade, error) {
	s, ok := r.sociedades[id]
	if !ok {
		return persistence.Sociedade{}, persistence.ErrNotFound
	}
	return s, nil
}

func (r *sociedadeRepoStub) SetSociedadeActive(_ context.Context, id int64, active bool, at time.Time) (persistence.Sociedade, error) {
	s, ok := r.sociedades[id]
	if !ok {
		return persistence.Sociedade{}, persistence.ErrNotFound
	}
	s.Active = active
	s.UpdatedAt = persistence.NewTimestamp(at)
	r.sociedades[id] = s
	return s, nil
}

func (r *sociedadeRepoStub) ListSociedades(context.Context, persistence.SociedadeFilter) ([]persistence.Sociedade, error) {
	out := []persistence.Sociedade{}
	for _, s := range r.sociedades {
		out = append(out, s)
	}
	return out, nil
}

func (r *sociedadeRepoStub) ListSociedadeMembers(context.Context, int64) ([]persistence.MembroView, error) {
	return r.members, nil
}

type linkRepoStub struct {
	links  map[int64]persistence.PessoaSociedade
	nextID int64
	err    error
}

func newLinkRepoStub() *linkRepoStub {
	return &linkRepoStub{links: map[int64]persistence.PessoaSociedade{}}
}

func (r *linkRepoStub) CreatePessoaSociedade(_ context.Context, link persistence.PessoaSociedade) (persistence.PessoaSociedade, error) {
	if r.err != nil {
		return persistence.PessoaSociedade{}, r.err
	}
	r.nextID++
	link.ID = r.nextID
	r.links[link.ID] = link
	return link, nil
}

func (r *linkRepoStub) UpdatePessoaSociedade(_ context.Context, link persistence.PessoaSociedade) (persistence.PessoaSociedade, error) {
	r.links[link.ID] = link
	return link, nil
}

func (r *linkRepoStub) GetPessoaSociedade(_ context.Context, id int64) (persistence.PessoaSociedade, error) {
	link, ok := r.links[id]
	if !ok {
		return persistence.PessoaSociedade{}, persistence.ErrNotFound
	}
	return link, nil
}

type eventoRepoStub struct {
	eventos map[int64]persistence.Evento
	nextID  int64
	filter  persistence.EventoFilter
}

func newEventoRepoStub() *eventoRepoStub {
	return &eventoRepoStub{eventos: map[int64]persistence.Evento{}}
}

func (r *eventoRepoStub) CreateEvento(_ context.Context, e persistence.Evento) (persistence.Evento, error) {
	r.nextID++
	e.ID = r.nextID
	r.eventos[e.ID] = e
	return e, nil
}

func (r *eventoRepoStub) UpdateEvento(_ context.Context, e persistence.Evento) (persistence.Evento, error) {
	r.eventos[e.ID] = e
	return e, nil
}

func (r *eventoRepoStub) GetEvento(_ context.Context, id int64) (persistence.Evento, error) {
	e, ok := r.eventos[id]
	if !ok {
		return persistence.Evento{}, persistence.ErrNotFound
	}
	return e, nil
}

func (r *eventoRepoStub) SetEventoActive(_ context.Context, id int64, active bool, _ time.Time) (persistence.Evento, error) {
	e, ok := r.eventos[id]
	if !ok {
		return persistence.Evento{}, persistence.ErrNotFound
	}
	e.Active = active
	r.eventos[id] = e
	return e, nil
}

func (r *eventoRepoStub) SetEventoImage(_ context.Context, id int64, url string, _ time.Time) error {
	e, ok := r.eventos[id]
	if !ok {
		return persistence.ErrNotFound
	}
	e.Image = &url
	r.eventos[id] = e
	return nil
}

func (r *eventoRepoStub) GetEventoView(ctx context.Context, id int64) (persistence.EventoView, error) {
	e, err := r.GetEvento(ctx, id)
	return persistence.EventoView{Evento: e}, err
}

func (r *eventoRepoStub) ListEventoViews(_ context.Context, filter persistence.EventoFilter) ([]persistence.EventoView, error) {
	r.filter = filter
	return []persistence.EventoView{}, nil
}

type conselhoRepoStub struct {
	entries   map[int64]persistence.Conselho
	nextID    int64
	createErr error
}

func newConselhoRepoStub() *conselhoRepoStub {
	return &conselhoRepoStub{entries: map[int64]persistence.Conselho{}}
}

func (r *conselhoRepoStub) CreateConselho(_ context.Context, e persistence.Conselho) (persistence.Conselho, error) {
	if r.createErr != nil {
		return persistence.Conselho{}, r.createErr
	}
	r.nextID++
	e.ID = r.nextID
	r.entries[e.ID] = e
	return e, nil
}

func (r *conselhoRepoStub) UpdateConselho(_ context.Context, e persistence.Conselho) (persistence.Conselho, error) {
	r.entries[e.ID] = e
	return e, nil
}

func (r *conselhoRepoStub) GetConselho(_ context.Context, id int64) (persistence.Conselho, error) {
	e, ok := r.entries[id]
	if !ok {
		return persistence.Conselho{}, persistence.ErrNotFound
	}
	return e, nil
}

func (r *conselhoRepoStub) DeleteConselho(_ context.Context, id int64) error {
	if _, ok := r.entries[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *conselhoRepoStub) FindActiveConselhoByPessoa(_ context.Context, pessoaID int64) (persistence.Conselho, error) {
	for _, e := range r.entries {
		if e.PessoaID == pessoaID && e.Active {
			return e, nil
		}
	}
	return persistence.Conselho{}, persistence.ErrNotFound
}

func (r *conselhoRepoStub) GetConselhoView(ctx context.Context, id int64) (persistence.ConselhoView, error) {
	e, err := r.GetConselho(ctx, id)
	return persistence.ConselhoView{Conselho: e}, err
}

func (r *conselhoRepoStub) ListConselhoViews(context.Context) ([]persistence.ConselhoView, error) {
	return []persistence.ConselhoView{}, nil
}

type usuarioRepoStub struct {
	usuarios map[int64]persistence.Usuario
	nextID   int64
	touchErr error
	touched  map[int64]time.Time
}

func newUsuarioRepoStub() *usuarioRepoStub {
	return &usuarioRepoStub{usuarios: map[int64]persistence.Usuario{}, touched: map[int64]time.Time{}}
}

func (r *usuarioRepoStub) CreateUsuario(_ context.Context, u persistence.Usuario) (persistence.Usuario, error) {
	r.nextID++
	u.ID = r.nextID
	r.usuarios[u.ID] = u
	return u, nil
}

func (r *usuarioRepoStub) UpdateUsuario(_ context.Context, u persistence.Usuario) (persistence.Usuario, error) {
	r.usuarios[u.ID] = u
	return u, nil
}

func (r *usuarioRepoStub) GetUsuario(_ context.Context, id int64) (persistence.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return persistence.Usuario{}, persistence.ErrNotFound
	}
	return u, nil
}

func (r *usuarioRepoStub) GetUsuarioByLogin(_ context.Context, login string) (persistence.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Login == login {
			return u, nil
		}
	}
	return persistence.Usuario{}, persistence.ErrNotFound
}

func (r *usuarioRepoStub) SetUsuarioActive(_ context.Context, id int64, active bool, _ time.Time) (persistence.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return persistence.Usuario{}, persistence.ErrNotFound
	}
	u.Active = active
	r.usuarios[id] = u
	return u, nil
}

func (r *usuarioRepoStub) TouchUsuarioLastAccess(_ context.Context, id int64, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched[id] = at
	return nil
}

func (r *usuarioRepoStub) ListUsuarios(context.Context, persistence.UsuarioFilter) ([]persistence.Usuario, error) {
	return []persistence.Usuario{}, nil
}

type objectStoreStub struct {
	objects map[string]string
	err     error
}

func (s *objectStoreStub) Put(_ context.Context, obj objectstore.Object) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, _ := io.ReadAll(obj.Body)
	if s.objects == nil {
		s.objects = map[string]string{}
	}
	key := obj.Bucket + "/" + obj.Name
	s.objects[key] = string(data)
	return "https://cdn.example/" + key, nil
}

func ptr[T any](v T) *T { return &v }
