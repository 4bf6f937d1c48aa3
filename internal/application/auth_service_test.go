package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/church-registry/internal/persistence"
)

func newAuthFixture(t *testing.T) (*usuarioRepoStub, *pessoaRepoStub, *AuthService) {
	t.Helper()

	hash, err := NewBcryptHasher(4)("segredo")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	accounts := newUsuarioRepoStub()
	pessoas := newPessoaRepoStub()
	pessoas.pessoas[7] = persistence.Pessoa{ID: 7, Name: "Pr. Marcos", Active: true}
	accounts.usuarios[1] = persistence.Usuario{ID: 1, Login: "admin", PasswordHash: hash, PessoaID: ptr(int64(7)), Active: true}
	accounts.usuarios[2] = persistence.Usuario{ID: 2, Login: "antigo", PasswordHash: hash, Active: false}

	return accounts, pessoas, NewAuthServiceWithLogger(accounts, pessoas, nil, fixedClock, discardLogger())
}

func TestAuthService_LoginSuccess(t *testing.T) {
	t.Parallel()

	accounts, _, svc := newAuthFixture(t)

	result, err := svc.Login(context.Background(), LoginParams{Login: " admin ", Password: "segredo"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Usuario.ID != 1 {
		t.Fatalf("unexpected account %+v", result.Usuario)
	}
	if result.PessoaName == nil || *result.PessoaName != "Pr. Marcos" {
		t.Fatalf("expected linked pessoa name, got %v", result.PessoaName)
	}
	if at, ok := accounts.touched[1]; !ok || !at.Equal(fixedNow) {
		t.Fatalf("expected ultimo_acesso to be recorded, got %v", accounts.touched)
	}
	if result.Usuario.LastAccess == nil || !result.Usuario.LastAccess.Equal(fixedNow) {
		t.Fatalf("expected returned account to carry the new access time")
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params LoginParams
		want   error
	}{
		{name: "unknown login", params: LoginParams{Login: "ninguem", Password: "segredo"}, want: ErrInvalidCredentials},
		{name: "wrong password", params: LoginParams{Login: "admin", Password: "errada"}, want: ErrInvalidCredentials},
		{name: "inactive with right password", params: LoginParams{Login: "antigo", Password: "segredo"}, want: ErrAccountDisabled},
		{name: "inactive with wrong password", params: LoginParams{Login: "antigo", Password: "errada"}, want: ErrAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts, _, svc := newAuthFixture(t)
			_, err := svc.Login(context.Background(), tt.params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(accounts.touched) != 0 {
				t.Fatalf("failed login must not touch ultimo_acesso")
			}
		})
	}

	t.Run("blank credentials", func(t *testing.T) {
		_, _, svc := newAuthFixture(t)
		_, err := svc.Login(context.Background(), LoginParams{Login: "admin"})
		if err == nil || err.Error() != "nmLogin e senha são obrigatórios" {
			t.Fatalf("unexpected error %v", err)
		}
	})
}

func TestAuthService_TouchFailureDoesNotBlockLogin(t *testing.T) {
	t.Parallel()

	accounts, _, svc := newAuthFixture(t)
	accounts.touchErr = errors.New("database is locked")

	result, err := svc.Login(context.Background(), LoginParams{Login: "admin", Password: "segredo"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Usuario.LastAccess != nil {
		t.Fatalf("expected no access time when the touch failed")
	}
}

func TestAuthService_AcceptsArgon2Hashes(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("segredo", Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}
	accounts := newUsuarioRepoStub()
	accounts.usuarios[1] = persistence.Usuario{ID: 1, Login: "legado", PasswordHash: hash, Active: true}
	svc := NewAuthServiceWithLogger(accounts, nil, nil, fixedClock, discardLogger())

	if _, err := svc.Login(context.Background(), LoginParams{Login: "legado", Password: "segredo"}); err != nil {
		t.Fatalf("expected argon2 hash to verify: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginParams{Login: "legado", Password: "outra"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	_, _, svc := newAuthFixture(t)
	ctx := context.Background()

	for id, want := range map[int64]bool{1: true, 2: false, 99: false} {
		got, err := svc.ValidateSession(ctx, id)
		if err != nil {
			t.Fatalf("ValidateSession(%d) failed: %v", id, err)
		}
		if got != want {
			t.Fatalf("ValidateSession(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(4)("s3nha")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "s3nha") {
		t.Fatalf("hash must not contain the plain password")
	}
	if err := CheckPassword(hash, "s3nha"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "outra"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := CheckPassword("s3nha", "s3nha"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Fatalf("plain text storage must be rejected, got %v", err)
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(99)("x")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Fatalf("expected default cost, got %q", hash)
	}
}
