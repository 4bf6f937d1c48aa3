package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const msgEventoRequired = "nmEvento, dtEvento e horaEvento são obrigatórios"

// EventoService manages church events.
type EventoService struct {
	eventos persistence.EventoRepository
	now     func() time.Time
	logger  *slog.Logger
}

// NewEventoService constructs an event service.
func NewEventoService(eventos persistence.EventoRepository, now func() time.Time) *EventoService {
	return NewEventoServiceWithLogger(eventos, now, nil)
}

// NewEventoServiceWithLogger constructs an event service with a specified logger.
func NewEventoServiceWithLogger(eventos persistence.EventoRepository, now func() time.Time, logger *slog.Logger) *EventoService {
	if now == nil {
		now = time.Now
	}
	return &EventoService{eventos: eventos, now: now, logger: defaultLogger(logger)}
}

func (s *EventoService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventoService", operation, attrs...)
}

func (s *EventoService) ready() error {
	if s == nil || s.eventos == nil {
		return fmt.Errorf("evento repository not configured")
	}
	return nil
}

// CreateEvento stores a new event, active unless told otherwise.
func (s *EventoService) CreateEvento(ctx context.Context, input EventoInput) (evento persistence.Evento, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateEvento")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create evento", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cdevento", evento.ID).InfoContext(ctx, "evento created")
	}()

	candidate := persistence.Evento{
		Name:         strings.TrimSpace(input.Name),
		Date:         strings.TrimSpace(input.Date),
		Time:         strings.TrimSpace(input.Time),
		TipoEventoID: input.TipoEventoID,
		SociedadeID:  input.SociedadeID,
		Address:      normalizeOptionalString(input.Address),
		Description:  normalizeOptionalString(input.Description),
		Image:        normalizeOptionalString(input.Image),
		Active:       boolOr(input.Active, true),
	}
	if candidate.Name == "" || candidate.Date == "" || candidate.Time == "" {
		err = requiredError(msgEventoRequired, "nmEvento", "dtEvento", "horaEvento")
		return
	}
	if vErr := validateEvento(candidate); vErr.HasErrors() {
		err = vErr
		return
	}

	now := persistence.NewTimestamp(s.now())
	candidate.CreatedAt, candidate.UpdatedAt = now, now
	evento, err = s.eventos.CreateEvento(ctx, candidate)
	err = mapRepoError(err)
	return
}

// UpdateEvento applies the keys present in p.
func (s *EventoService) UpdateEvento(ctx context.Context, id int64, p EventoPatch) (evento persistence.Evento, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvento", "cdevento", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update evento", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "evento updated")
	}()

	var existing persistence.Evento
	existing, err = s.eventos.GetEvento(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if p.Name.Set {
		existing.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Date.Set {
		existing.Date = strings.TrimSpace(p.Date.Value)
	}
	if p.Time.Set {
		existing.Time = strings.TrimSpace(p.Time.Value)
	}
	if existing.Name == "" || existing.Date == "" || existing.Time == "" {
		err = requiredError(msgEventoRequired, "nmevento", "dtevento", "horaevento")
		return
	}
	if p.Active.Set {
		if p.Active.Null {
			err = requiredError("ativo não pode ser nulo", "ativo")
			return
		}
		existing.Active = p.Active.Value
	}
	p.TipoEventoID.Apply(&existing.TipoEventoID)
	p.SociedadeID.Apply(&existing.SociedadeID)
	p.Address.Apply(&existing.Address)
	p.Description.Apply(&existing.Description)
	p.Image.Apply(&existing.Image)
	existing.Address = normalizeOptionalString(existing.Address)
	existing.Description = normalizeOptionalString(existing.Description)
	existing.Image = normalizeOptionalString(existing.Image)

	if vErr := validateEvento(existing); vErr.HasErrors() {
		err = vErr
		return
	}

	existing.UpdatedAt = persistence.NewTimestamp(s.now())
	evento, err = s.eventos.UpdateEvento(ctx, existing)
	err = mapRepoError(err)
	return
}

// DeactivateEvento sets ativo=false and touches nothing else.
func (s *EventoService) DeactivateEvento(ctx context.Context, id int64) (evento persistence.Evento, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "DeactivateEvento", "cdevento", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to deactivate evento", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "evento deactivated")
	}()

	evento, err = s.eventos.SetEventoActive(ctx, id, false, s.now())
	err = mapRepoError(err)
	return
}

// GetEvento returns one event joined with its type and society.
func (s *EventoService) GetEvento(ctx context.Context, id int64) (persistence.EventoView, error) {
	if err := s.ready(); err != nil {
		return persistence.EventoView{}, err
	}
	view, err := s.eventos.GetEventoView(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetEvento", "cdevento", id).ErrorContext(ctx, "failed to load evento", "error", err, "error_kind", ErrorKind(err))
		return persistence.EventoView{}, err
	}
	return view, nil
}

// ListEventos returns events matching filter, newest first.
func (s *EventoService) ListEventos(ctx context.Context, filter persistence.EventoFilter) (views []persistence.EventoView, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ListEventos")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list eventos", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(views)).DebugContext(ctx, "eventos listed")
	}()

	vErr := &ValidationError{}
	if filter.From != "" && !validDate(filter.From) {
		vErr.add("inicio", "inicio deve estar no formato AAAA-MM-DD")
	}
	if filter.To != "" && !validDate(filter.To) {
		vErr.add("fim", "fim deve estar no formato AAAA-MM-DD")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	views, err = s.eventos.ListEventoViews(ctx, filter)
	err = mapRepoError(err)
	return
}

func validateEvento(evento persistence.Evento) *ValidationError {
	vErr := &ValidationError{}
	if !validDate(evento.Date) {
		vErr.add("dtevento", "dtevento deve estar no formato AAAA-MM-DD")
	}
	if !validClock(evento.Time) {
		vErr.add("horaevento", "horaevento deve estar no formato HH:MM")
	}
	return vErr
}
