package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const usuarioColumns = "cdusuario, nmlogin, senha, cdpessoa, ativo, ultimo_acesso, created_at, updated_at"

// UsuarioRepository implements persistence.UsuarioRepository using SQLite
type UsuarioRepository struct {
	helper *QueryHelper
}

// NewUsuarioRepository creates a new SQLite account repository
func NewUsuarioRepository(pool *ConnectionPool) *UsuarioRepository {
	return &UsuarioRepository{helper: NewQueryHelper(pool)}
}

// CreateUsuario inserts an account. A taken login surfaces as
// persistence.ErrConflict.
func (r *UsuarioRepository) CreateUsuario(ctx context.Context, usuario persistence.Usuario) (persistence.Usuario, error) {
	id, err := r.helper.Insert(ctx, `
		INSERT INTO usuario (nmlogin, senha, cdpessoa, ativo, ultimo_acesso, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		normalizeLogin(usuario.Login), usuario.PasswordHash, usuario.PessoaID, usuario.Active,
		usuario.LastAccess, usuario.CreatedAt, usuario.UpdatedAt,
	)
	if err != nil {
		return persistence.Usuario{}, err
	}
	return r.GetUsuario(ctx, id)
}

// UpdateUsuario overwrites the mutable columns of an account.
func (r *UsuarioRepository) UpdateUsuario(ctx context.Context, usuario persistence.Usuario) (persistence.Usuario, error) {
	err := r.helper.ExecAffectingOne(ctx, `
		UPDATE usuario SET nmlogin = ?, senha = ?, cdpessoa = ?, ativo = ?, updated_at = ?
		WHERE cdusuario = ?`,
		normalizeLogin(usuario.Login), usuario.PasswordHash, usuario.PessoaID, usuario.Active,
		usuario.UpdatedAt, usuario.ID,
	)
	if err != nil {
		return persistence.Usuario{}, err
	}
	return r.GetUsuario(ctx, usuario.ID)
}

// GetUsuario retrieves an account by id.
func (r *UsuarioRepository) GetUsuario(ctx context.Context, id int64) (persistence.Usuario, error) {
	var usuario persistence.Usuario
	if err := r.helper.Get(ctx, &usuario, "SELECT "+usuarioColumns+" FROM usuario WHERE cdusuario = ?", id); err != nil {
		return persistence.Usuario{}, err
	}
	return usuario, nil
}

// GetUsuarioByLogin retrieves an account by its login.
func (r *UsuarioRepository) GetUsuarioByLogin(ctx context.Context, login string) (persistence.Usuario, error) {
	var usuario persistence.Usuario
	if err := r.helper.Get(ctx, &usuario, "SELECT "+usuarioColumns+" FROM usuario WHERE nmlogin = ?", normalizeLogin(login)); err != nil {
		return persistence.Usuario{}, err
	}
	return usuario, nil
}

// SetUsuarioActive flips the active flag only.
func (r *UsuarioRepository) SetUsuarioActive(ctx context.Context, id int64, active bool, at time.Time) (persistence.Usuario, error) {
	err := r.helper.ExecAffectingOne(ctx,
		"UPDATE usuario SET ativo = ?, updated_at = ? WHERE cdusuario = ?",
		active, persistence.NewTimestamp(at), id)
	if err != nil {
		return persistence.Usuario{}, err
	}
	return r.GetUsuario(ctx, id)
}

// TouchUsuarioLastAccess records a successful login.
func (r *UsuarioRepository) TouchUsuarioLastAccess(ctx context.Context, id int64, at time.Time) error {
	return r.helper.ExecAffectingOne(ctx,
		"UPDATE usuario SET ultimo_acesso = ? WHERE cdusuario = ?",
		persistence.NewTimestamp(at), id)
}

// ListUsuarios returns accounts ordered by login.
func (r *UsuarioRepository) ListUsuarios(ctx context.Context, filter persistence.UsuarioFilter) ([]persistence.Usuario, error) {
	query := "SELECT " + usuarioColumns + " FROM usuario"
	if filter.ActiveOnly {
		query += " WHERE ativo = 1"
	}
	query += " ORDER BY nmlogin"

	usuarios := []persistence.Usuario{}
	if err := r.helper.Select(ctx, &usuarios, query); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// normalizeLogin trims surrounding whitespace; logins stay case sensitive.
func normalizeLogin(login string) string {
	return strings.TrimSpace(login)
}
