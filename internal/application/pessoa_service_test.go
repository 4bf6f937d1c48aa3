package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

func TestPessoaService_CreatePessoa(t *testing.T) {
	t.Parallel()

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()
		svc := NewPessoaServiceWithLogger(newPessoaRepoStub(), fixedClock, discardLogger())

		_, err := svc.CreatePessoa(context.Background(), PessoaInput{Name: "   "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.Message != "Campo nmpessoa é obrigatório" {
			t.Fatalf("unexpected message %q", vErr.Message)
		}
	})

	t.Run("defaults to active and trims optional fields", func(t *testing.T) {
		t.Parallel()
		repo := newPessoaRepoStub()
		svc := NewPessoaServiceWithLogger(repo, fixedClock, discardLogger())

		pessoa, err := svc.CreatePessoa(context.Background(), PessoaInput{
			Name:      " Maria da Silva ",
			Phone:     ptr("  "),
			Email:     ptr(" maria@igreja.org "),
			BirthDate: ptr("1990-02-14"),
		})
		if err != nil {
			t.Fatalf("CreatePessoa failed: %v", err)
		}
		if pessoa.Name != "Maria da Silva" || !pessoa.Active {
			t.Fatalf("unexpected pessoa %+v", pessoa)
		}
		if pessoa.Phone != nil {
			t.Fatalf("expected blank phone to be stored as null")
		}
		if pessoa.Email == nil || *pessoa.Email != "maria@igreja.org" {
			t.Fatalf("expected trimmed email, got %v", pessoa.Email)
		}
		if !pessoa.CreatedAt.Equal(fixedNow) {
			t.Fatalf("expected created_at from clock, got %v", pessoa.CreatedAt)
		}
	})

	t.Run("rejects malformed date and email", func(t *testing.T) {
		t.Parallel()
		svc := NewPessoaServiceWithLogger(newPessoaRepoStub(), fixedClock, discardLogger())

		_, err := svc.CreatePessoa(context.Background(), PessoaInput{
			Name:      "João",
			BirthDate: ptr("14/02/1990"),
			Email:     ptr("not-an-email"),
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["dtnascimento"]; !ok {
			t.Fatalf("expected dtnascimento error, got %+v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["email"]; !ok {
			t.Fatalf("expected email error, got %+v", vErr.FieldErrors)
		}
	})
}

func TestPessoaService_UpdatePessoa(t *testing.T) {
	t.Parallel()

	seed := func() (*pessoaRepoStub, *PessoaService) {
		repo := newPessoaRepoStub()
		repo.pessoas[1] = persistence.Pessoa{ID: 1, Name: "Ana", Phone: ptr("1111"), Email: ptr("ana@x.org"), Active: true}
		return repo, NewPessoaServiceWithLogger(repo, fixedClock, discardLogger())
	}

	t.Run("changes only present keys and clears nulls", func(t *testing.T) {
		t.Parallel()
		_, svc := seed()

		pessoa, err := svc.UpdatePessoa(context.Background(), 1, PessoaPatch{
			Phone: patch.Null[string](),
			Name:  patch.Of("Ana Paula"),
		})
		if err != nil {
			t.Fatalf("UpdatePessoa failed: %v", err)
		}
		if pessoa.Name != "Ana Paula" || pessoa.Phone != nil {
			t.Fatalf("unexpected pessoa %+v", pessoa)
		}
		if pessoa.Email == nil || *pessoa.Email != "ana@x.org" {
			t.Fatalf("expected email untouched, got %v", pessoa.Email)
		}
		if !pessoa.UpdatedAt.Equal(fixedNow) {
			t.Fatalf("expected updated_at stamped")
		}
	})

	t.Run("soft delete through ativo", func(t *testing.T) {
		t.Parallel()
		_, svc := seed()

		pessoa, err := svc.UpdatePessoa(context.Background(), 1, PessoaPatch{Active: patch.Of(false)})
		if err != nil {
			t.Fatalf("UpdatePessoa failed: %v", err)
		}
		if pessoa.Active {
			t.Fatalf("expected pessoa to be inactive")
		}
	})

	t.Run("name cannot be blanked", func(t *testing.T) {
		t.Parallel()
		_, svc := seed()

		_, err := svc.UpdatePessoa(context.Background(), 1, PessoaPatch{Name: patch.Of(" ")})
		if ErrorKind(err) != "validation" {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		_, svc := seed()

		_, err := svc.UpdatePessoa(context.Background(), 99, PessoaPatch{Name: patch.Of("X")})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPessoaService_GetPessoaComputesAge(t *testing.T) {
	t.Parallel()

	repo := newPessoaRepoStub()
	repo.pessoas[1] = persistence.Pessoa{ID: 1, Name: "Ana", BirthDate: ptr("1990-05-21"), Active: true}
	svc := NewPessoaServiceWithLogger(repo, fixedClock, discardLogger())

	details, err := svc.GetPessoa(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPessoa failed: %v", err)
	}
	if details.Age == nil || *details.Age != 33 {
		t.Fatalf("expected age 33 the day before the birthday, got %v", details.Age)
	}
}

func TestPessoaService_ListPessoaSociedades_UnknownPessoa(t *testing.T) {
	t.Parallel()

	svc := NewPessoaServiceWithLogger(newPessoaRepoStub(), fixedClock, discardLogger())
	if _, err := svc.ListPessoaSociedades(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		birth *string
		want  *int
	}{
		{birth: nil, want: nil},
		{birth: ptr("bad"), want: nil},
		{birth: ptr("2000-03-01"), want: ptr(24)},
		{birth: ptr("2000-03-02"), want: ptr(23)},
		{birth: ptr("2000-02-29"), want: ptr(24)},
		{birth: ptr("2030-01-01"), want: nil},
	}

	for _, tt := range tests {
		got := Age(tt.birth, now)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Fatalf("Age(%v) = %v, want %v", tt.birth, got, tt.want)
		}
	}
}
