package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/church-registry/internal/persistence"
)

const conselhoColumns = "c.cdlider, c.cdpessoa, c.datainicio, c.datafim, c.observacao, c.ativo, c.created_at, c.updated_at"

const conselhoViewQuery = "SELECT " + conselhoColumns + `,
		p.nmpessoa, p.fotopessoa, p.telefone, p.email, p.cdtipopessoa, tp.nmtipopessoa
	FROM conselho c
	JOIN pessoa p ON p.cdpessoa = c.cdpessoa
	LEFT JOIN tipopessoa tp ON tp.cdtipopessoa = p.cdtipopessoa`

// ConselhoRepository implements persistence.ConselhoRepository using SQLite.
// A second active entry for the same person is reported as
// persistence.ErrConflict, backed by the partial unique index
// ux_conselho_pessoa_ativo.
type ConselhoRepository struct {
	helper *QueryHelper
}

// NewConselhoRepository creates a new SQLite council repository
func NewConselhoRepository(pool *ConnectionPool) *ConselhoRepository {
	return &ConselhoRepository{helper: NewQueryHelper(pool)}
}

// CreateConselho inserts a council entry and returns the stored row. An
// active entry is rejected with persistence.ErrConflict when the person
// already holds one; the check and the insert share a transaction.
func (r *ConselhoRepository) CreateConselho(ctx context.Context, entry persistence.Conselho) (persistence.Conselho, error) {
	var id int64
	err := r.helper.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := ensureNoOtherActive(ctx, tx, entry); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO conselho (cdpessoa, datainicio, datafim, observacao, ativo, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.PessoaID, entry.StartDate, entry.EndDate, entry.Notes, entry.Active,
			entry.CreatedAt, entry.UpdatedAt,
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return persistence.Conselho{}, err
	}
	return r.GetConselho(ctx, id)
}

// UpdateConselho overwrites every mutable column of a council entry under
// the same single active entry rule as CreateConselho.
func (r *ConselhoRepository) UpdateConselho(ctx context.Context, entry persistence.Conselho) (persistence.Conselho, error) {
	err := r.helper.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := ensureNoOtherActive(ctx, tx, entry); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE conselho SET cdpessoa = ?, datainicio = ?, datafim = ?, observacao = ?, ativo = ?, updated_at = ?
			WHERE cdlider = ?`,
			entry.PessoaID, entry.StartDate, entry.EndDate, entry.Notes, entry.Active, entry.UpdatedAt, entry.ID,
		)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return persistence.Conselho{}, err
	}
	return r.GetConselho(ctx, entry.ID)
}

func ensureNoOtherActive(ctx context.Context, tx *sqlx.Tx, entry persistence.Conselho) error {
	if !entry.Active {
		return nil
	}
	var other int64
	err := tx.GetContext(ctx, &other,
		"SELECT cdlider FROM conselho WHERE cdpessoa = ? AND ativo = 1 AND cdlider <> ? LIMIT 1",
		entry.PessoaID, entry.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	}
	return fmt.Errorf("%w: pessoa %d already active in conselho %d", persistence.ErrConflict, entry.PessoaID, other)
}

// GetConselho retrieves a council entry by id.
func (r *ConselhoRepository) GetConselho(ctx context.Context, id int64) (persistence.Conselho, error) {
	var entry persistence.Conselho
	if err := r.helper.Get(ctx, &entry, "SELECT "+conselhoColumns+" FROM conselho c WHERE c.cdlider = ?", id); err != nil {
		return persistence.Conselho{}, err
	}
	return entry, nil
}

// DeleteConselho removes a council entry.
func (r *ConselhoRepository) DeleteConselho(ctx context.Context, id int64) error {
	return r.helper.ExecAffectingOne(ctx, "DELETE FROM conselho WHERE cdlider = ?", id)
}

// FindActiveConselhoByPessoa returns the person's active entry or
// persistence.ErrNotFound.
func (r *ConselhoRepository) FindActiveConselhoByPessoa(ctx context.Context, pessoaID int64) (persistence.Conselho, error) {
	var entry persistence.Conselho
	err := r.helper.Get(ctx, &entry,
		"SELECT "+conselhoColumns+" FROM conselho c WHERE c.cdpessoa = ? AND c.ativo = 1 LIMIT 1", pessoaID)
	if err != nil {
		return persistence.Conselho{}, err
	}
	return entry, nil
}

// GetConselhoView retrieves one entry joined with the person.
func (r *ConselhoRepository) GetConselhoView(ctx context.Context, id int64) (persistence.ConselhoView, error) {
	var view persistence.ConselhoView
	if err := r.helper.Get(ctx, &view, conselhoViewQuery+" WHERE c.cdlider = ?", id); err != nil {
		return persistence.ConselhoView{}, err
	}
	return view, nil
}

// ListConselhoViews returns every entry, most recent start date first.
func (r *ConselhoRepository) ListConselhoViews(ctx context.Context) ([]persistence.ConselhoView, error) {
	views := []persistence.ConselhoView{}
	if err := r.helper.Select(ctx, &views, conselhoViewQuery+" ORDER BY c.datainicio DESC, c.cdlider DESC"); err != nil {
		return nil, err
	}
	return views, nil
}
