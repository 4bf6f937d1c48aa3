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
	msgConselhoRequired     = "cdpessoa e datainicio são obrigatórios"
	msgConselhoAlreadyAtivo = "Esta pessoa já está ativa no conselho"
)

// ConselhoService manages council membership periods.
type ConselhoService struct {
	conselho persistence.ConselhoRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewConselhoService constructs a council service.
func NewConselhoService(conselho persistence.ConselhoRepository, now func() time.Time) *ConselhoService {
	return NewConselhoServiceWithLogger(conselho, now, nil)
}

// NewConselhoServiceWithLogger constructs a council service with a specified logger.
func NewConselhoServiceWithLogger(conselho persistence.ConselhoRepository, now func() time.Time, logger *slog.Logger) *ConselhoService {
	if now == nil {
		now = time.Now
	}
	return &ConselhoService{conselho: conselho, now: now, logger: defaultLogger(logger)}
}

func (s *ConselhoService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ConselhoService", operation, attrs...)
}

func (s *ConselhoService) ready() error {
	if s == nil || s.conselho == nil {
		return fmt.Errorf("conselho repository not configured")
	}
	return nil
}

// CreateConselho stores a council entry. A person may hold one active entry.
func (s *ConselhoService) CreateConselho(ctx context.Context, input ConselhoInput) (entry persistence.Conselho, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateConselho")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create conselho entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdlider", entry.ID, "cdpessoa", entry.PessoaID).InfoContext(ctx, "conselho entry created")
	}()

	start := strings.TrimSpace(input.StartDate)
	if input.PessoaID == nil || start == "" {
		err = requiredError(msgConselhoRequired, "cdpessoa", "datainicio")
		return
	}

	candidate := persistence.Conselho{
		PessoaID:  *input.PessoaID,
		StartDate: start,
		EndDate:   normalizeOptionalString(input.EndDate),
		Notes:     normalizeOptionalString(input.Notes),
		Active:    boolOr(input.Active, true),
	}
	if vErr := validateConselho(candidate); vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.ensureSingleActive(ctx, candidate); err != nil {
		return
	}

	now := persistence.NewTimestamp(s.now())
	candidate.CreatedAt, candidate.UpdatedAt = now, now
	entry, err = s.conselho.CreateConselho(ctx, candidate)
	err = mapConselhoRepoError(err)
	return
}

// UpdateConselho applies the keys present in p under the same rules as create.
func (s *ConselhoService) UpdateConselho(ctx context.Context, id int64, p ConselhoPatch) (entry persistence.Conselho, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateConselho", "cdlider", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update conselho entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "conselho entry updated")
	}()

	var existing persistence.Conselho
	existing, err = s.conselho.GetConselho(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if (p.PessoaID.Set && p.PessoaID.Null) || (p.StartDate.Set && strings.TrimSpace(p.StartDate.Value) == "") {
		err = requiredError(msgConselhoRequired, "cdpessoa", "datainicio")
		return
	}
	if p.PessoaID.Present() {
		existing.PessoaID = p.PessoaID.Value
	}
	if p.StartDate.Present() {
		existing.StartDate = strings.TrimSpace(p.StartDate.Value)
	}
	if p.Active.Set {
		if p.Active.Null {
			err = requiredError("ativo não pode ser nulo", "ativo")
			return
		}
		existing.Active = p.Active.Value
	}
	p.EndDate.Apply(&existing.EndDate)
	p.Notes.Apply(&existing.Notes)
	existing.EndDate = normalizeOptionalString(existing.EndDate)
	existing.Notes = normalizeOptionalString(existing.Notes)

	if vErr := validateConselho(existing); vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.ensureSingleActive(ctx, existing); err != nil {
		return
	}

	existing.UpdatedAt = persistence.NewTimestamp(s.now())
	entry, err = s.conselho.UpdateConselho(ctx, existing)
	err = mapConselhoRepoError(err)
	return
}

// DeleteConselho removes a council entry.
func (s *ConselhoService) DeleteConselho(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "DeleteConselho", "cdlider", id)
	if err := s.conselho.DeleteConselho(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete conselho entry", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "conselho entry deleted")
	return nil
}

// GetConselho returns one entry joined with the person.
func (s *ConselhoService) GetConselho(ctx context.Context, id int64) (persistence.ConselhoView, error) {
	if err := s.ready(); err != nil {
		return persistence.ConselhoView{}, err
	}
	view, err := s.conselho.GetConselhoView(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetConselho", "cdlider", id).ErrorContext(ctx, "failed to load conselho entry", "error", err, "error_kind", ErrorKind(err))
		return persistence.ConselhoView{}, err
	}
	return view, nil
}

// ListConselho returns every entry, most recent start first.
func (s *ConselhoService) ListConselho(ctx context.Context) ([]persistence.ConselhoView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	views, err := s.conselho.ListConselhoViews(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListConselho").ErrorContext(ctx, "failed to list conselho", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return views, nil
}

// ensureSingleActive rejects an active entry when the person already holds
// another one. The repository repeats the check inside the write transaction.
func (s *ConselhoService) ensureSingleActive(ctx context.Context, entry persistence.Conselho) error {
	if !entry.Active {
		return nil
	}
	current, err := s.conselho.FindActiveConselhoByPessoa(ctx, entry.PessoaID)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return nil
	case err != nil:
		return mapRepoError(err)
	case current.ID != entry.ID:
		return &ConflictError{Message: msgConselhoAlreadyAtivo}
	}
	return nil
}

func validateConselho(entry persistence.Conselho) *ValidationError {
	vErr := &ValidationError{}
	if !validDate(entry.StartDate) {
		vErr.add("datainicio", "datainicio deve estar no formato AAAA-MM-DD")
	}
	checkOptionalDate(vErr, "datafim", entry.EndDate)
	if !vErr.HasErrors() && entry.EndDate != nil && *entry.EndDate < entry.StartDate {
		vErr.add("datafim", "datafim não pode ser anterior a datainicio")
	}
	return vErr
}

func mapConselhoRepoError(err error) error {
	if errors.Is(err, persistence.ErrConflict) {
		return &ConflictError{Message: msgConselhoAlreadyAtivo}
	}
	return mapRepoError(err)
}
