package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const msgSociedadeNameRequired = "nmSociedade é obrigatório"

// SociedadeService manages societies and their member listings.
type SociedadeService struct {
	sociedades persistence.SociedadeRepository
	now        func() time.Time
	logger     *slog.Logger
}

// NewSociedadeService constructs a society service.
func NewSociedadeService(sociedades persistence.SociedadeRepository, now func() time.Time) *SociedadeService {
	return NewSociedadeServiceWithLogger(sociedades, now, nil)
}

// NewSociedadeServiceWithLogger constructs a society service with a specified logger.
func NewSociedadeServiceWithLogger(sociedades persistence.SociedadeRepository, now func() time.Time, logger *slog.Logger) *SociedadeService {
	if now == nil {
		now = time.Now
	}
	return &SociedadeService{sociedades: sociedades, now: now, logger: defaultLogger(logger)}
}

func (s *SociedadeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SociedadeService", operation, attrs...)
}

func (s *SociedadeService) ready() error {
	if s == nil || s.sociedades == nil {
		return fmt.Errorf("sociedade repository not configured")
	}
	return nil
}

// CreateSociedade stores a new society, active unless told otherwise.
func (s *SociedadeService) CreateSociedade(ctx context.Context, input SociedadeInput) (sociedade persistence.Sociedade, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateSociedade")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create sociedade", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdsociedade", sociedade.ID).InfoContext(ctx, "sociedade created")
	}()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		err = requiredError(msgSociedadeNameRequired, "nmSociedade")
		return
	}

	now := persistence.NewTimestamp(s.now())
	sociedade, err = s.sociedades.CreateSociedade(ctx, persistence.Sociedade{
		Name:        name,
		Acronym:     normalizeOptionalString(input.Acronym),
		Description: normalizeOptionalString(input.Description),
		Active:      boolOr(input.Active, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	err = mapRepoError(err)
	return
}

// UpdateSociedade applies the keys present in p.
func (s *SociedadeService) UpdateSociedade(ctx context.Context, id int64, p SociedadePatch) (sociedade persistence.Sociedade, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateSociedade", "cdsociedade", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update sociedade", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sociedade updated")
	}()

	var existing persistence.Sociedade
	existing, err = s.sociedades.GetSociedade(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if p.Name.Null || name == "" {
			err = requiredError(msgSociedadeNameRequired, "nmSociedade")
			return
		}
		existing.Name = name
	}
	if p.Active.Set {
		if p.Active.Null {
			err = requiredError("ativo não pode ser nulo", "ativo")
			return
		}
		existing.Active = p.Active.Value
	}
	p.Acronym.Apply(&existing.Acronym)
	p.Description.Apply(&existing.Description)
	existing.Acronym = normalizeOptionalString(existing.Acronym)
	existing.Description = normalizeOptionalString(existing.Description)
	existing.UpdatedAt = persistence.NewTimestamp(s.now())

	sociedade, err = s.sociedades.UpdateSociedade(ctx, existing)
	err = mapRepoError(err)
	return
}

// DeactivateSociedade sets ativo=false and touches nothing else.
func (s *SociedadeService) DeactivateSociedade(ctx context.Context, id int64) (sociedade persistence.Sociedade, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "DeactivateSociedade", "cdsociedade", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to deactivate sociedade", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sociedade deactivated")
	}()

	sociedade, err = s.sociedades.SetSociedadeActive(ctx, id, false, s.now())
	err = mapRepoError(err)
	return
}

// GetSociedade returns one society.
func (s *SociedadeService) GetSociedade(ctx context.Context, id int64) (persistence.Sociedade, error) {
	if err := s.ready(); err != nil {
		return persistence.Sociedade{}, err
	}
	sociedade, err := s.sociedades.GetSociedade(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetSociedade", "cdsociedade", id).ErrorContext(ctx, "failed to load sociedade", "error", err, "error_kind", ErrorKind(err))
		return persistence.Sociedade{}, err
	}
	return sociedade, nil
}

// ListSociedades returns societies ordered by name.
func (s *SociedadeService) ListSociedades(ctx context.Context, filter persistence.SociedadeFilter) ([]persistence.Sociedade, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sociedades, err := s.sociedades.ListSociedades(ctx, filter)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListSociedades").ErrorContext(ctx, "failed to list sociedades", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return sociedades, nil
}

// ListMembros returns the active members of an existing society.
func (s *SociedadeService) ListMembros(ctx context.Context, id int64) (members []persistence.MembroView, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ListMembros", "cdsociedade", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list membros", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if _, err = s.sociedades.GetSociedade(ctx, id); err != nil {
		err = mapRepoError(err)
		return
	}
	members, err = s.sociedades.ListSociedadeMembers(ctx, id)
	err = mapRepoError(err)
	return
}
