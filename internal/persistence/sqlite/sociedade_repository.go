package sqlite

import (
	"context"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const sociedadeColumns = "cdsociedade, nmsociedade, sigla, descricao, ativo, created_at, updated_at"

// SociedadeRepository implements persistence.SociedadeRepository using SQLite
type SociedadeRepository struct {
	helper *QueryHelper
}

// NewSociedadeRepository creates a new SQLite society repository
func NewSociedadeRepository(pool *ConnectionPool) *SociedadeRepository {
	return &SociedadeRepository{helper: NewQueryHelper(pool)}
}

// CreateSociedade inserts a society and returns the stored row.
func (r *SociedadeRepository) CreateSociedade(ctx context.Context, sociedade persistence.Sociedade) (persistence.Sociedade, error) {
	id, err := r.helper.Insert(ctx, `
		INSERT INTO sociedades (nmsociedade, sigla, descricao, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sociedade.Name, sociedade.Acronym, sociedade.Description, sociedade.Active,
		sociedade.CreatedAt, sociedade.UpdatedAt,
	)
	if err != nil {
		return persistence.Sociedade{}, err
	}
	return r.GetSociedade(ctx, id)
}

// UpdateSociedade overwrites every mutable column of a society.
func (r *SociedadeRepository) UpdateSociedade(ctx context.Context, sociedade persistence.Sociedade) (persistence.Sociedade, error) {
	err := r.helper.ExecAffectingOne(ctx, `
		UPDATE sociedades SET nmsociedade = ?, sigla = ?, descricao = ?, ativo = ?, updated_at = ?
		WHERE cdsociedade = ?`,
		sociedade.Name, sociedade.Acronym, sociedade.Description, sociedade.Active,
		sociedade.UpdatedAt, sociedade.ID,
	)
	if err != nil {
		return persistence.Sociedade{}, err
	}
	return r.GetSociedade(ctx, sociedade.ID)
}

// GetSociedade retrieves a society by id.
func (r *SociedadeRepository) GetSociedade(ctx context.Context, id int64) (persistence.Sociedade, error) {
	var sociedade persistence.Sociedade
	if err := r.helper.Get(ctx, &sociedade, "SELECT "+sociedadeColumns+" FROM sociedades WHERE cdsociedade = ?", id); err != nil {
		return persistence.Sociedade{}, err
	}
	return sociedade, nil
}

// SetSociedadeActive flips the active flag only.
func (r *SociedadeRepository) SetSociedadeActive(ctx context.Context, id int64, active bool, at time.Time) (persistence.Sociedade, error) {
	err := r.helper.ExecAffectingOne(ctx,
		"UPDATE sociedades SET ativo = ?, updated_at = ? WHERE cdsociedade = ?",
		active, persistence.NewTimestamp(at), id)
	if err != nil {
		return persistence.Sociedade{}, err
	}
	return r.GetSociedade(ctx, id)
}

// ListSociedades returns societies ordered by name, active ones only unless
// the filter asks for all.
func (r *SociedadeRepository) ListSociedades(ctx context.Context, filter persistence.SociedadeFilter) ([]persistence.Sociedade, error) {
	query := "SELECT " + sociedadeColumns + " FROM sociedades"
	if !filter.IncludeInactive {
		query += " WHERE ativo = 1"
	}
	query += " ORDER BY nmsociedade"

	sociedades := []persistence.Sociedade{}
	if err := r.helper.Select(ctx, &sociedades, query); err != nil {
		return nil, err
	}
	return sociedades, nil
}

// ListSociedadeMembers returns the active memberships of a society joined
// with a person summary, ordered by person name.
func (r *SociedadeRepository) ListSociedadeMembers(ctx context.Context, sociedadeID int64) ([]persistence.MembroView, error) {
	members := []persistence.MembroView{}
	err := r.helper.Select(ctx, &members, `
		SELECT ps.cdpessoasociedade, ps.cdpessoa, ps.cdsociedade, ps.cargo, ps.cdpessoatiposociedade,
			ps.dataentrada, ps.ativo, ps.created_at, ps.updated_at,
			c.nmcargo,
			p.nmpessoa AS pessoa_nmpessoa, p.fotopessoa AS pessoa_fotopessoa,
			p.telefone AS pessoa_telefone, p.email AS pessoa_email
		FROM pessoassociedade ps
		JOIN pessoa p ON p.cdpessoa = ps.cdpessoa
		LEFT JOIN pessoatiposociedade c ON c.cdpessoatiposociedade = ps.cdpessoatiposociedade
		WHERE ps.cdsociedade = ? AND ps.ativo = 1
		ORDER BY p.nmpessoa`, sociedadeID)
	if err != nil {
		return nil, err
	}
	return members, nil
}
