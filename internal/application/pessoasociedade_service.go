package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const msgLinkRequired = "cdpessoa e cdsociedade são obrigatórios"

// PessoaSociedadeService manages membership links between people and societies.
type PessoaSociedadeService struct {
	links  persistence.PessoaSociedadeRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewPessoaSociedadeService constructs a membership service.
func NewPessoaSociedadeService(links persistence.PessoaSociedadeRepository, now func() time.Time) *PessoaSociedadeService {
	return NewPessoaSociedadeServiceWithLogger(links, now, nil)
}

// NewPessoaSociedadeServiceWithLogger constructs a membership service with a specified logger.
func NewPessoaSociedadeServiceWithLogger(links persistence.PessoaSociedadeRepository, now func() time.Time, logger *slog.Logger) *PessoaSociedadeService {
	if now == nil {
		now = time.Now
	}
	return &PessoaSociedadeService{links: links, now: now, logger: defaultLogger(logger)}
}

func (s *PessoaSociedadeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PessoaSociedadeService", operation, attrs...)
}

// CreateLink stores an active link. The entry date defaults to today.
func (s *PessoaSociedadeService) CreateLink(ctx context.Context, input PessoaSociedadeInput) (link persistence.PessoaSociedade, err error) {
	if s == nil || s.links == nil {
		err = fmt.Errorf("pessoassociedade repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLink")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create link", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdpessoasociedade", link.ID, "cdpessoa", link.PessoaID, "cdsociedade", link.SociedadeID).InfoContext(ctx, "link created")
	}()

	if input.PessoaID == nil || input.SociedadeID == nil {
		err = requiredError(msgLinkRequired, "cdpessoa", "cdsociedade")
		return
	}

	current := s.now()
	joined := current.Format(dateLayout)
	if value := normalizeOptionalString(input.JoinedOn); value != nil {
		if !validDate(*value) {
			err = requiredError("dataentrada deve estar no formato AAAA-MM-DD", "dataentrada")
			return
		}
		joined = *value
	}

	stamp := persistence.NewTimestamp(current)
	link, err = s.links.CreatePessoaSociedade(ctx, persistence.PessoaSociedade{
		PessoaID:    *input.PessoaID,
		SociedadeID: *input.SociedadeID,
		Role:        normalizeOptionalString(input.Role),
		RoleTypeID:  input.RoleTypeID,
		JoinedOn:    joined,
		Active:      true,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	})
	err = mapRepoError(err)
	return
}

// UpdateLink applies the keys present in p; an empty patch deactivates the link.
func (s *PessoaSociedadeService) UpdateLink(ctx context.Context, id int64, p PessoaSociedadePatch) (link persistence.PessoaSociedade, err error) {
	if s == nil || s.links == nil {
		err = fmt.Errorf("pessoassociedade repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLink", "cdpessoasociedade", id, "deactivate", p.Empty())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update link", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "link updated")
	}()

	var existing persistence.PessoaSociedade
	existing, err = s.links.GetPessoaSociedade(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if p.Empty() {
		existing.Active = false
	} else {
		if p.JoinedOn.Set {
			if !p.JoinedOn.Present() || !validDate(p.JoinedOn.Value) {
				err = requiredError("dataentrada deve estar no formato AAAA-MM-DD", "dataentrada")
				return
			}
			existing.JoinedOn = p.JoinedOn.Value
		}
		if p.Active.Set {
			if p.Active.Null {
				err = requiredError("ativo não pode ser nulo", "ativo")
				return
			}
			existing.Active = p.Active.Value
		}
		p.Role.Apply(&existing.Role)
		existing.Role = normalizeOptionalString(existing.Role)
		p.RoleTypeID.Apply(&existing.RoleTypeID)
	}
	existing.UpdatedAt = persistence.NewTimestamp(s.now())

	link, err = s.links.UpdatePessoaSociedade(ctx, existing)
	err = mapRepoError(err)
	return
}
