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

// AccountStore exposes the account operations required by the auth service.
type AccountStore interface {
	GetUsuario(ctx context.Context, id int64) (persistence.Usuario, error)
	GetUsuarioByLogin(ctx context.Context, login string) (persistence.Usuario, error)
	TouchUsuarioLastAccess(ctx context.Context, id int64, at time.Time) error
}

// PessoaLookup resolves the person linked to an account.
type PessoaLookup interface {
	GetPessoa(ctx context.Context, id int64) (persistence.Pessoa, error)
}

// AuthService checks credentials. Sessions are not stored server side; the
// client keeps the returned account and asks ValidateSession to re-check it.
type AuthService struct {
	accounts       AccountStore
	pessoas        PessoaLookup
	verifyPassword PasswordVerifier
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(accounts AccountStore, pessoas PessoaLookup, verify PasswordVerifier, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(accounts, pessoas, verify, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(accounts AccountStore, pessoas PessoaLookup, verify PasswordVerifier, now func() time.Time, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = CheckPassword
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		accounts:       accounts,
		pessoas:        pessoas,
		verifyPassword: verify,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates credentials, records the access time and resolves the
// linked person's name. Inactive accounts are refused before the password
// is looked at.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil || s.accounts == nil {
		err = fmt.Errorf("account store not configured")
		return
	}

	login := strings.TrimSpace(params.Login)
	logger := s.loggerWith(ctx, "Login", "nmlogin", login)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdusuario", result.Usuario.ID).InfoContext(ctx, "login succeeded")
	}()

	if login == "" || params.Password == "" {
		err = requiredError("nmLogin e senha são obrigatórios", "nmLogin", "senha")
		return
	}

	var usuario persistence.Usuario
	usuario, err = s.accounts.GetUsuarioByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = mapRepoError(err)
		return
	}

	if !usuario.Active {
		err = ErrAccountDisabled
		return
	}

	if verifyErr := s.verifyPassword(usuario.PasswordHash, params.Password); verifyErr != nil {
		if !errors.Is(verifyErr, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "stored password hash rejected", "error", verifyErr)
		}
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	if touchErr := s.accounts.TouchUsuarioLastAccess(ctx, usuario.ID, now); touchErr != nil {
		logger.WarnContext(ctx, "failed to record last access", "error", touchErr)
	} else {
		stamp := persistence.NewTimestamp(now)
		usuario.LastAccess = &stamp
	}

	result.Usuario = usuario
	if usuario.PessoaID != nil && s.pessoas != nil {
		pessoa, lookupErr := s.pessoas.GetPessoa(ctx, *usuario.PessoaID)
		if lookupErr != nil {
			logger.WarnContext(ctx, "failed to resolve linked pessoa", "cdpessoa", *usuario.PessoaID, "error", lookupErr)
		} else {
			name := pessoa.Name
			result.PessoaName = &name
		}
	}
	return
}

// ValidateSession reports whether id names an existing active account.
func (s *AuthService) ValidateSession(ctx context.Context, id int64) (bool, error) {
	if s == nil || s.accounts == nil {
		return false, fmt.Errorf("account store not configured")
	}

	usuario, err := s.accounts.GetUsuario(ctx, id)
	if errors.Is(err, persistence.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ValidateSession", "cdusuario", id).ErrorContext(ctx, "failed to validate session", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}
	return usuario.Active, nil
}
