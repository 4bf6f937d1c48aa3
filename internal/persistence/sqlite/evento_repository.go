package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

const eventoColumns = `e.cdevento, e.cdtipoevento, e.nmevento, e.descricao, e.dtevento, e.horaevento,
	e.enderecoevento, e.cdsociedade, e.imagemevento, e.ativo, e.created_at, e.updated_at`

const eventoViewFrom = `
	FROM eventos e
	LEFT JOIN tipoevento te ON te.cdtipoevento = e.cdtipoevento
	LEFT JOIN sociedades s ON s.cdsociedade = e.cdsociedade`

// EventoRepository implements persistence.EventoRepository using SQLite
type EventoRepository struct {
	helper *QueryHelper
}

// NewEventoRepository creates a new SQLite event repository
func NewEventoRepository(pool *ConnectionPool) *EventoRepository {
	return &EventoRepository{helper: NewQueryHelper(pool)}
}

// CreateEvento inserts an event and returns the stored row.
func (r *EventoRepository) CreateEvento(ctx context.Context, evento persistence.Evento) (persistence.Evento, error) {
	id, err := r.helper.Insert(ctx, `
		INSERT INTO eventos (cdtipoevento, nmevento, descricao, dtevento, horaevento, enderecoevento,
			cdsociedade, imagemevento, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evento.TipoEventoID, evento.Name, evento.Description, evento.Date, evento.Time, evento.Address,
		evento.SociedadeID, evento.Image, evento.Active, evento.CreatedAt, evento.UpdatedAt,
	)
	if err != nil {
		return persistence.Evento{}, err
	}
	return r.GetEvento(ctx, id)
}

// UpdateEvento overwrites every mutable column of an event.
func (r *EventoRepository) UpdateEvento(ctx context.Context, evento persistence.Evento) (persistence.Evento, error) {
	err := r.helper.ExecAffectingOne(ctx, `
		UPDATE eventos SET cdtipoevento = ?, nmevento = ?, descricao = ?, dtevento = ?, horaevento = ?,
			enderecoevento = ?, cdsociedade = ?, imagemevento = ?, ativo = ?, updated_at = ?
		WHERE cdevento = ?`,
		evento.TipoEventoID, evento.Name, evento.Description, evento.Date, evento.Time, evento.Address,
		evento.SociedadeID, evento.Image, evento.Active, evento.UpdatedAt, evento.ID,
	)
	if err != nil {
		return persistence.Evento{}, err
	}
	return r.GetEvento(ctx, evento.ID)
}

// GetEvento retrieves an event by id.
func (r *EventoRepository) GetEvento(ctx context.Context, id int64) (persistence.Evento, error) {
	var evento persistence.Evento
	if err := r.helper.Get(ctx, &evento, "SELECT "+eventoColumns+" FROM eventos e WHERE e.cdevento = ?", id); err != nil {
		return persistence.Evento{}, err
	}
	return evento, nil
}

// SetEventoActive flips the active flag only.
func (r *EventoRepository) SetEventoActive(ctx context.Context, id int64, active bool, at time.Time) (persistence.Evento, error) {
	err := r.helper.ExecAffectingOne(ctx,
		"UPDATE eventos SET ativo = ?, updated_at = ? WHERE cdevento = ?",
		active, persistence.NewTimestamp(at), id)
	if err != nil {
		return persistence.Evento{}, err
	}
	return r.GetEvento(ctx, id)
}

// SetEventoImage stores the public URL of the event image.
func (r *EventoRepository) SetEventoImage(ctx context.Context, id int64, url string, at time.Time) error {
	return r.helper.ExecAffectingOne(ctx,
		"UPDATE eventos SET imagemevento = ?, updated_at = ? WHERE cdevento = ?",
		url, persistence.NewTimestamp(at), id)
}

// GetEventoView retrieves an event joined with its type and society.
func (r *EventoRepository) GetEventoView(ctx context.Context, id int64) (persistence.EventoView, error) {
	var view persistence.EventoView
	query := "SELECT " + eventoColumns + ", te.nmtipoevento, s.nmsociedade, s.sigla" + eventoViewFrom + " WHERE e.cdevento = ?"
	if err := r.helper.Get(ctx, &view, query, id); err != nil {
		return persistence.EventoView{}, err
	}
	return view, nil
}

// ListEventoViews returns events matching filter, newest date first.
func (r *EventoRepository) ListEventoViews(ctx context.Context, filter persistence.EventoFilter) ([]persistence.EventoView, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.TipoEventoID != nil {
		conditions = append(conditions, "e.cdtipoevento = ?")
		args = append(args, *filter.TipoEventoID)
	}
	if filter.SociedadeID != nil {
		conditions = append(conditions, "e.cdsociedade = ?")
		args = append(args, *filter.SociedadeID)
	}
	if filter.Active != nil {
		conditions = append(conditions, "e.ativo = ?")
		args = append(args, *filter.Active)
	}
	if filter.From != "" {
		conditions = append(conditions, "e.dtevento >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "e.dtevento <= ?")
		args = append(args, filter.To)
	}

	query := "SELECT " + eventoColumns + ", te.nmtipoevento, s.nmsociedade, s.sigla" + eventoViewFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.dtevento DESC, e.horaevento DESC"

	views := []persistence.EventoView{}
	if err := r.helper.Select(ctx, &views, query, args...); err != nil {
		return nil, err
	}
	return views, nil
}
