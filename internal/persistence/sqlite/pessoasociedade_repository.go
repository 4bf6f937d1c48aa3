package sqlite

import (
	"context"

	"github.com/example/church-registry/internal/persistence"
)

// PessoaSociedadeRepository implements persistence.PessoaSociedadeRepository using SQLite
type PessoaSociedadeRepository struct {
	helper *QueryHelper
}

// NewPessoaSociedadeRepository creates a new SQLite membership repository
func NewPessoaSociedadeRepository(pool *ConnectionPool) *PessoaSociedadeRepository {
	return &PessoaSociedadeRepository{helper: NewQueryHelper(pool)}
}

// CreatePessoaSociedade inserts a membership link. A missing person or society
// surfaces as persistence.ErrForeignKey.
func (r *PessoaSociedadeRepository) CreatePessoaSociedade(ctx context.Context, link persistence.PessoaSociedade) (persistence.PessoaSociedade, error) {
	id, err := r.helper.Insert(ctx, `
		INSERT INTO pessoassociedade (cdpessoa, cdsociedade, cargo, cdpessoatiposociedade, dataentrada, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		link.PessoaID, link.SociedadeID, link.Role, link.RoleTypeID, link.JoinedOn,
		link.Active, link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		return persistence.PessoaSociedade{}, err
	}
	return r.GetPessoaSociedade(ctx, id)
}

// UpdatePessoaSociedade overwrites the mutable columns of a link.
func (r *PessoaSociedadeRepository) UpdatePessoaSociedade(ctx context.Context, link persistence.PessoaSociedade) (persistence.PessoaSociedade, error) {
	err := r.helper.ExecAffectingOne(ctx, `
		UPDATE pessoassociedade SET cargo = ?, cdpessoatiposociedade = ?, dataentrada = ?, ativo = ?, updated_at = ?
		WHERE cdpessoasociedade = ?`,
		link.Role, link.RoleTypeID, link.JoinedOn, link.Active, link.UpdatedAt, link.ID,
	)
	if err != nil {
		return persistence.PessoaSociedade{}, err
	}
	return r.GetPessoaSociedade(ctx, link.ID)
}

// GetPessoaSociedade retrieves a link by id.
func (r *PessoaSociedadeRepository) GetPessoaSociedade(ctx context.Context, id int64) (persistence.PessoaSociedade, error) {
	var link persistence.PessoaSociedade
	err := r.helper.Get(ctx, &link, `
		SELECT cdpessoasociedade, cdpessoa, cdsociedade, cargo, cdpessoatiposociedade,
			dataentrada, ativo, created_at, updated_at
		FROM pessoassociedade WHERE cdpessoasociedade = ?`, id)
	if err != nil {
		return persistence.PessoaSociedade{}, err
	}
	return link, nil
}
