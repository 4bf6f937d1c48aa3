package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const (
	msgUsuarioRequired = "nmlogin e senha são obrigatórios"
	msgLoginTaken      = "Login já existe"
)

// UsuarioService manages login accounts. Passwords are hashed before they
// reach the repository.
type UsuarioService struct {
	usuarios persistence.UsuarioRepository
	hash     PasswordHasher
	now      func() time.Time
	logger   *slog.Logger
}

// NewUsuarioService constructs an account service hashing with bcrypt at the default cost.
func NewUsuarioService(usuarios persistence.UsuarioRepository, now func() time.Time) *UsuarioService {
	return NewUsuarioServiceWithLogger(usuarios, nil, now, nil)
}

// NewUsuarioServiceWithLogger constructs an account service with a specified hasher and logger.
func NewUsuarioServiceWithLogger(usuarios persistence.UsuarioRepository, hash PasswordHasher, now func() time.Time, logger *slog.Logger) *UsuarioService {
	if hash == nil {
		hash = NewBcryptHasher(DefaultBcryptCost)
	}
	if now == nil {
		now = time.Now
	}
	return &UsuarioService{usuarios: usuarios, hash: hash, now: now, logger: defaultLogger(logger)}
}

func (s *UsuarioService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UsuarioService", operation, attrs...)
}

func (s *UsuarioService) ready() error {
	if s == nil || s.usuarios == nil {
		return fmt.Errorf("usuario repository not configured")
	}
	return nil
}

// CreateUsuario stores a new account with a hashed password.
func (s *UsuarioService) CreateUsuario(ctx context.Context, input UsuarioInput) (usuario persistence.Usuario, err error) {
	if err = s.ready(); err != nil {
		return
	}

	login := strings.TrimSpace(input.Login)
	logger := s.loggerWith(ctx, "CreateUsuario", "nmlogin", login)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create usuario", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdusuario", usuario.ID).InfoContext(ctx, "usuario created")
	}()

	if login == "" || input.Password == "" {
		err = requiredError(msgUsuarioRequired, "nmlogin", "senha")
		return
	}
	if err = s.ensureLoginFree(ctx, login, 0); err != nil {
		return
	}

	var hashed string
	if hashed, err = s.hash(input.Password); err != nil {
		return
	}

	now := persistence.NewTimestamp(s.now())
	usuario, err = s.usuarios.CreateUsuario(ctx, persistence.Usuario{
		Login:        login,
		PasswordHash: hashed,
		PessoaID:     input.PessoaID,
		Active:       boolOr(input.Active, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	err = mapUsuarioRepoError(err)
	return
}

// UpdateUsuario applies the keys present in p, re-hashing a new password.
func (s *UsuarioService) UpdateUsuario(ctx context.Context, id int64, p UsuarioPatch) (usuario persistence.Usuario, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateUsuario", "cdusuario", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update usuario", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "usuario updated")
	}()

	var existing persistence.Usuario
	existing, err = s.usuarios.GetUsuario(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if p.Login.Set {
		login := strings.TrimSpace(p.Login.Value)
		if login == "" {
			err = requiredError(msgUsuarioRequired, "nmlogin")
			return
		}
		if login != existing.Login {
			if err = s.ensureLoginFree(ctx, login, existing.ID); err != nil {
				return
			}
		}
		existing.Login = login
	}
	if p.Password.Set {
		if p.Password.Value == "" {
			err = requiredError(msgUsuarioRequired, "senha")
			return
		}
		if existing.PasswordHash, err = s.hash(p.Password.Value); err != nil {
			return
		}
	}
	if p.Active.Set {
		if p.Active.Null {
			err = requiredError("ativo não pode ser nulo", "ativo")
			return
		}
		existing.Active = p.Active.Value
	}
	p.PessoaID.Apply(&existing.PessoaID)
	existing.UpdatedAt = persistence.NewTimestamp(s.now())

	usuario, err = s.usuarios.UpdateUsuario(ctx, existing)
	err = mapUsuarioRepoError(err)
	return
}

// DeactivateUsuario sets ativo=false and touches nothing else.
func (s *UsuarioService) DeactivateUsuario(ctx context.Context, id int64) (usuario persistence.Usuario, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "DeactivateUsuario", "cdusuario", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to deactivate usuario", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "usuario deactivated")
	}()

	usuario, err = s.usuarios.SetUsuarioActive(ctx, id, false, s.now())
	err = mapRepoError(err)
	return
}

// GetUsuario returns one account.
func (s *UsuarioService) GetUsuario(ctx context.Context, id int64) (persistence.Usuario, error) {
	if err := s.ready(); err != nil {
		return persistence.Usuario{}, err
	}
	usuario, err := s.usuarios.GetUsuario(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetUsuario", "cdusuario", id).ErrorContext(ctx, "failed to load usuario", "error", err, "error_kind", ErrorKind(err))
		return persistence.Usuario{}, err
	}
	return usuario, nil
}

// ListUsuarios returns accounts ordered by login.
func (s *UsuarioService) ListUsuarios(ctx context.Context, filter persistence.UsuarioFilter) ([]persistence.Usuario, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	usuarios, err := s.usuarios.ListUsuarios(ctx, filter)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListUsuarios").ErrorContext(ctx, "failed to list usuarios", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return usuarios, nil
}

func (s *UsuarioService) ensureLoginFree(ctx context.Context, login string, self int64) error {
	found, err := s.usuarios.GetUsuarioByLogin(ctx, login)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return nil
	case err != nil:
		return mapRepoError(err)
	case found.ID != self:
		return loginTakenError()
	}
	return nil
}

// loginTakenError reports a duplicate login as a validation failure on nmlogin.
func loginTakenError() *ValidationError {
	vErr := &ValidationError{}
	vErr.add("nmlogin", msgLoginTaken)
	return vErr
}

func mapUsuarioRepoError(err error) error {
	if errors.Is(err, persistence.ErrConflict) {
		return loginTakenError()
	}
	return mapRepoError(err)
}
