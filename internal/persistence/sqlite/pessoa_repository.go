package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/church-registry/internal/persistence"
)

const pessoaColumns = `p.cdpessoa, p.nmpessoa, p.cdtipopessoa, p.fotopessoa, p.dtnascimento,
	p.telefone, p.email, p.endereco, p.ativo, p.created_at, p.updated_at`

const linkViewQuery = `
	SELECT ps.cdpessoasociedade, ps.cdpessoa, ps.cdsociedade, ps.cargo, ps.cdpessoatiposociedade,
		ps.dataentrada, ps.ativo, ps.created_at, ps.updated_at,
		s.nmsociedade, s.sigla, c.nmcargo
	FROM pessoassociedade ps
	JOIN sociedades s ON s.cdsociedade = ps.cdsociedade
	LEFT JOIN pessoatiposociedade c ON c.cdpessoatiposociedade = ps.cdpessoatiposociedade
`

// PessoaRepository implements persistence.PessoaRepository using SQLite
type PessoaRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
}

// NewPessoaRepository creates a new SQLite person repository
func NewPessoaRepository(pool *ConnectionPool) *PessoaRepository {
	return &PessoaRepository{pool: pool, helper: NewQueryHelper(pool)}
}

// CreatePessoa inserts a person and returns the stored row.
func (r *PessoaRepository) CreatePessoa(ctx context.Context, pessoa persistence.Pessoa) (persistence.Pessoa, error) {
	id, err := r.helper.Insert(ctx, `
		INSERT INTO pessoa (nmpessoa, cdtipopessoa, fotopessoa, dtnascimento, telefone, email, endereco, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pessoa.Name, pessoa.TipoPessoaID, pessoa.Photo, pessoa.BirthDate, pessoa.Phone,
		pessoa.Email, pessoa.Address, pessoa.Active, pessoa.CreatedAt, pessoa.UpdatedAt,
	)
	if err != nil {
		return persistence.Pessoa{}, err
	}
	return r.GetPessoa(ctx, id)
}

// UpdatePessoa overwrites every mutable column of a person.
func (r *PessoaRepository) UpdatePessoa(ctx context.Context, pessoa persistence.Pessoa) (persistence.Pessoa, error) {
	err := r.helper.ExecAffectingOne(ctx, `
		UPDATE pessoa SET nmpessoa = ?, cdtipopessoa = ?, fotopessoa = ?, dtnascimento = ?, telefone = ?,
			email = ?, endereco = ?, ativo = ?, updated_at = ?
		WHERE cdpessoa = ?`,
		pessoa.Name, pessoa.TipoPessoaID, pessoa.Photo, pessoa.BirthDate, pessoa.Phone,
		pessoa.Email, pessoa.Address, pessoa.Active, pessoa.UpdatedAt, pessoa.ID,
	)
	if err != nil {
		return persistence.Pessoa{}, err
	}
	return r.GetPessoa(ctx, pessoa.ID)
}

// GetPessoa retrieves a person by id.
func (r *PessoaRepository) GetPessoa(ctx context.Context, id int64) (persistence.Pessoa, error) {
	var pessoa persistence.Pessoa
	if err := r.helper.Get(ctx, &pessoa, "SELECT "+pessoaColumns+" FROM pessoa p WHERE p.cdpessoa = ?", id); err != nil {
		return persistence.Pessoa{}, err
	}
	return pessoa, nil
}

// SetPessoaPhoto stores the public URL of the person's photo.
func (r *PessoaRepository) SetPessoaPhoto(ctx context.Context, id int64, url string, at time.Time) error {
	return r.helper.ExecAffectingOne(ctx,
		"UPDATE pessoa SET fotopessoa = ?, updated_at = ? WHERE cdpessoa = ?",
		url, persistence.NewTimestamp(at), id)
}

// GetPessoaView retrieves a person with type name and active memberships.
func (r *PessoaRepository) GetPessoaView(ctx context.Context, id int64) (persistence.PessoaView, error) {
	var view persistence.PessoaView
	query := "SELECT " + pessoaColumns + `, tp.nmtipopessoa
		FROM pessoa p
		LEFT JOIN tipopessoa tp ON tp.cdtipopessoa = p.cdtipopessoa
		WHERE p.cdpessoa = ?`
	if err := r.helper.Get(ctx, &view, query, id); err != nil {
		return persistence.PessoaView{}, err
	}

	links, err := r.ListPessoaLinks(ctx, id)
	if err != nil {
		return persistence.PessoaView{}, err
	}
	view.Links = links
	return view, nil
}

// ListPessoaViews returns people matching filter ordered by name, each with
// its active memberships attached.
func (r *PessoaRepository) ListPessoaViews(ctx context.Context, filter persistence.PessoaFilter) ([]persistence.PessoaView, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.TipoPessoaID != nil {
		conditions = append(conditions, "p.cdtipopessoa = ?")
		args = append(args, *filter.TipoPessoaID)
	}
	if filter.Active != nil {
		conditions = append(conditions, "p.ativo = ?")
		args = append(args, *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, "instr("+casefoldFunc+"(p.nmpessoa), ?) > 0")
		args = append(args, strings.ToLower(search))
	}
	if filter.SociedadeID != nil {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM pessoassociedade f
			WHERE f.cdpessoa = p.cdpessoa AND f.cdsociedade = ? AND f.ativo = 1)`)
		args = append(args, *filter.SociedadeID)
	}

	query := "SELECT " + pessoaColumns + `, tp.nmtipopessoa
		FROM pessoa p
		LEFT JOIN tipopessoa tp ON tp.cdtipopessoa = p.cdtipopessoa`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.nmpessoa"

	views := []persistence.PessoaView{}
	if err := r.helper.Select(ctx, &views, query, args...); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}

	if err := r.attachLinks(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *PessoaRepository) attachLinks(ctx context.Context, views []persistence.PessoaView) error {
	ids := make([]int64, len(views))
	for i, view := range views {
		ids[i] = view.ID
	}

	query, args, err := sqlx.In(linkViewQuery+" WHERE ps.cdpessoa IN (?) AND ps.ativo = 1 ORDER BY ps.dataentrada DESC, ps.cdpessoasociedade DESC", ids)
	if err != nil {
		return err
	}

	var links []persistence.SociedadeLinkView
	if err := r.helper.Select(ctx, &links, r.pool.DB().Rebind(query), args...); err != nil {
		return err
	}

	byPessoa := make(map[int64][]persistence.SociedadeLinkView, len(views))
	for _, link := range links {
		byPessoa[link.PessoaID] = append(byPessoa[link.PessoaID], link)
	}
	for i := range views {
		views[i].Links = byPessoa[views[i].ID]
	}
	return nil
}

// ListPessoaLinks returns the person's active memberships, newest entry date first.
func (r *PessoaRepository) ListPessoaLinks(ctx context.Context, pessoaID int64) ([]persistence.SociedadeLinkView, error) {
	links := []persistence.SociedadeLinkView{}
	query := linkViewQuery + " WHERE ps.cdpessoa = ? AND ps.ativo = 1 ORDER BY ps.dataentrada DESC, ps.cdpessoasociedade DESC"
	if err := r.helper.Select(ctx, &links, query, pessoaID); err != nil {
		return nil, err
	}
	return links, nil
}
