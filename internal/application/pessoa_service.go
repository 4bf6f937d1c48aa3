package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const msgPessoaNameRequired = "Campo nmpessoa é obrigatório"

// PessoaService orchestrates validation and persistence for people.
type PessoaService struct {
	pessoas persistence.PessoaRepository
	now     func() time.Time
	logger  *slog.Logger
}

// NewPessoaService constructs a person service.
func NewPessoaService(pessoas persistence.PessoaRepository, now func() time.Time) *PessoaService {
	return NewPessoaServiceWithLogger(pessoas, now, nil)
}

// NewPessoaServiceWithLogger constructs a person service with a specified logger.
func NewPessoaServiceWithLogger(pessoas persistence.PessoaRepository, now func() time.Time, logger *slog.Logger) *PessoaService {
	if now == nil {
		now = time.Now
	}
	return &PessoaService{pessoas: pessoas, now: now, logger: defaultLogger(logger)}
}

func (s *PessoaService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PessoaService", operation, attrs...)
}

func (s *PessoaService) ready() error {
	if s == nil || s.pessoas == nil {
		return fmt.Errorf("pessoa repository not configured")
	}
	return nil
}

// CreatePessoa validates input and stores a new person, active unless told otherwise.
func (s *PessoaService) CreatePessoa(ctx context.Context, input PessoaInput) (pessoa persistence.Pessoa, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreatePessoa")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create pessoa", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdpessoa", pessoa.ID).InfoContext(ctx, "pessoa created")
	}()

	now := persistence.NewTimestamp(s.now())
	candidate := persistence.Pessoa{
		Name:         strings.TrimSpace(input.Name),
		TipoPessoaID: input.TipoPessoaID,
		Photo:        normalizeOptionalString(input.Photo),
		BirthDate:    normalizeOptionalString(input.BirthDate),
		Phone:        normalizeOptionalString(input.Phone),
		Email:        normalizeOptionalString(input.Email),
		Address:      normalizeOptionalString(input.Address),
		Active:       boolOr(input.Active, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if vErr := validatePessoa(candidate); vErr.HasErrors() {
		err = vErr
		return
	}

	pessoa, err = s.pessoas.CreatePessoa(ctx, candidate)
	err = mapRepoError(err)
	return
}

// UpdatePessoa applies the keys present in p. Sending ativo=false is the
// soft delete.
func (s *PessoaService) UpdatePessoa(ctx context.Context, id int64, p PessoaPatch) (pessoa persistence.Pessoa, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdatePessoa", "cdpessoa", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update pessoa", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "pessoa updated")
	}()

	var existing persistence.Pessoa
	existing, err = s.pessoas.GetPessoa(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := &ValidationError{}
	if p.Name.Set {
		if p.Name.Null {
			vErr.add("nmpessoa", msgPessoaNameRequired)
		}
		existing.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Active.Set {
		if p.Active.Null {
			vErr.add("ativo", "ativo não pode ser nulo")
		}
		existing.Active = p.Active.Value
	}
	p.TipoPessoaID.Apply(&existing.TipoPessoaID)
	p.Photo.Apply(&existing.Photo)
	p.BirthDate.Apply(&existing.BirthDate)
	p.Phone.Apply(&existing.Phone)
	p.Email.Apply(&existing.Email)
	p.Address.Apply(&existing.Address)
	existing.Photo = normalizeOptionalString(existing.Photo)
	existing.BirthDate = normalizeOptionalString(existing.BirthDate)
	existing.Phone = normalizeOptionalString(existing.Phone)
	existing.Email = normalizeOptionalString(existing.Email)
	existing.Address = normalizeOptionalString(existing.Address)

	vErr.merge(validatePessoa(existing))
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing.UpdatedAt = persistence.NewTimestamp(s.now())
	pessoa, err = s.pessoas.UpdatePessoa(ctx, existing)
	err = mapRepoError(err)
	return
}

// GetPessoa returns the person view with age and active memberships.
func (s *PessoaService) GetPessoa(ctx context.Context, id int64) (details PessoaDetails, err error) {
	if err = s.ready(); err != nil {
		return
	}

	var view persistence.PessoaView
	view, err = s.pessoas.GetPessoaView(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetPessoa", "cdpessoa", id).ErrorContext(ctx, "failed to load pessoa", "error", err, "error_kind", ErrorKind(err))
		return
	}
	return s.details(view), nil
}

// ListPessoas returns people matching filter ordered by name.
func (s *PessoaService) ListPessoas(ctx context.Context, filter persistence.PessoaFilter) (out []PessoaDetails, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ListPessoas")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list pessoas", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(out)).DebugContext(ctx, "pessoas listed")
	}()

	var views []persistence.PessoaView
	views, err = s.pessoas.ListPessoaViews(ctx, filter)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	out = make([]PessoaDetails, 0, len(views))
	for _, view := range views {
		out = append(out, s.details(view))
	}
	return
}

// ListPessoaSociedades returns the active memberships of an existing person.
func (s *PessoaService) ListPessoaSociedades(ctx context.Context, id int64) (links []persistence.SociedadeLinkView, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ListPessoaSociedades", "cdpessoa", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list pessoa sociedades", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if _, err = s.pessoas.GetPessoa(ctx, id); err != nil {
		err = mapRepoError(err)
		return
	}
	links, err = s.pessoas.ListPessoaLinks(ctx, id)
	err = mapRepoError(err)
	return
}

func (s *PessoaService) details(view persistence.PessoaView) PessoaDetails {
	return PessoaDetails{PessoaView: view, Age: Age(view.BirthDate, s.now())}
}

func validatePessoa(pessoa persistence.Pessoa) *ValidationError {
	vErr := &ValidationError{}
	if pessoa.Name == "" {
		vErr.add("nmpessoa", msgPessoaNameRequired)
	}
	checkOptionalDate(vErr, "dtnascimento", pessoa.BirthDate)
	if pessoa.Email != nil && !validEmail(*pessoa.Email) {
		vErr.add("email", "email inválido")
	}
	return vErr
}
