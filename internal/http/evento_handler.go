package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type eventoService interface {
	CreateEvento(ctx context.Context, input application.EventoInput) (persistence.Evento, error)
	UpdateEvento(ctx context.Context, id int64, p application.EventoPatch) (persistence.Evento, error)
	DeactivateEvento(ctx context.Context, id int64) (persistence.Evento, error)
	GetEvento(ctx context.Context, id int64) (persistence.EventoView, error)
	ListEventos(ctx context.Context, filter persistence.EventoFilter) ([]persistence.EventoView, error)
}

type EventoHandler struct {
	service   eventoService
	responder responder
	logger    *slog.Logger
}

func NewEventoHandler(service eventoService, logger *slog.Logger) *EventoHandler {
	base := defaultLogger(logger)
	return &EventoHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventoHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EventoHandler", operation, attrs...)
}

// Create accepts the camelCase form body.
func (h *EventoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode evento request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	evento, err := h.service.CreateEvento(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "evento creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdevento", evento.ID).InfoContext(r.Context(), "evento created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventoResponse{Evento: toEventoRow(evento)})
}

// Update accepts storage column keys.
func (h *EventoHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req eventoPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdevento", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode evento update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdevento", id)
	evento, err := h.service.UpdateEvento(r.Context(), id, req.toPatch())
	if err != nil {
		logger.WarnContext(r.Context(), "evento update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "evento updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventoResponse{Evento: toEventoRow(evento)})
}

func (h *EventoHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Deactivate", "cdevento", id)
	evento, err := h.service.DeactivateEvento(r.Context(), id)
	if err != nil {
		logger.WarnContext(r.Context(), "evento deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "evento deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventoResponse{Evento: toEventoRow(evento)})
}

func (h *EventoHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.GetEvento(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "cdevento", id).WarnContext(r.Context(), "evento lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventoViewResponse{Evento: toEventoView(view)})
}

func (h *EventoHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := eventoFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	views, err := h.service.ListEventos(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "List").WarnContext(r.Context(), "evento list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]eventoViewDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toEventoView(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventosResponse{Eventos: out})
}

func eventoFilterFromQuery(r *http.Request) (persistence.EventoFilter, error) {
	var (
		filter persistence.EventoFilter
		err    error
	)
	if filter.TipoEventoID, err = queryInt64(r, "tipo"); err != nil {
		return filter, err
	}
	if filter.SociedadeID, err = queryInt64(r, "sociedade"); err != nil {
		return filter, err
	}
	if filter.Active, err = queryBool(r, "ativo"); err != nil {
		return filter, err
	}
	query := r.URL.Query()
	filter.From = strings.TrimSpace(query.Get("inicio"))
	filter.To = strings.TrimSpace(query.Get("fim"))
	return filter, nil
}

type eventoRequest struct {
	Name         string  `json:"nmEvento"`
	Date         string  `json:"dtEvento"`
	Time         string  `json:"horaEvento"`
	TipoEventoID *int64  `json:"cdTipoEvento"`
	SociedadeID  *int64  `json:"cdSociedade"`
	Address      *string `json:"enderecoEvento"`
	Description  *string `json:"descricao"`
	Image        *string `json:"imagemEvento"`
	Active       *bool   `json:"ativo"`
}

func (r eventoRequest) toInput() application.EventoInput {
	return application.EventoInput{
		Name:         r.Name,
		Date:         r.Date,
		Time:         r.Time,
		TipoEventoID: r.TipoEventoID,
		SociedadeID:  r.SociedadeID,
		Address:      r.Address,
		Description:  r.Description,
		Image:        r.Image,
		Active:       r.Active,
	}
}

type eventoPatchRequest struct {
	Name         patch.Field[string] `json:"nmevento"`
	TipoEventoID patch.Field[int64]  `json:"cdtipoevento"`
	Date         patch.Field[string] `json:"dtevento"`
	Time         patch.Field[string] `json:"horaevento"`
	Address      patch.Field[string] `json:"enderecoevento"`
	SociedadeID  patch.Field[int64]  `json:"cdsociedade"`
	Description  patch.Field[string] `json:"descricao"`
	Image        patch.Field[string] `json:"imagemevento"`
	Active       patch.Field[bool]   `json:"ativo"`
}

func (r eventoPatchRequest) toPatch() application.EventoPatch {
	return application.EventoPatch{
		Name:         r.Name,
		TipoEventoID: r.TipoEventoID,
		Date:         r.Date,
		Time:         r.Time,
		Address:      r.Address,
		SociedadeID:  r.SociedadeID,
		Description:  r.Description,
		Image:        r.Image,
		Active:       r.Active,
	}
}

type eventoResponse struct {
	Evento eventoRowDTO `json:"evento"`
}

type eventoViewResponse struct {
	Evento eventoViewDTO `json:"evento"`
}

type listEventosResponse struct {
	Eventos []eventoViewDTO `json:"eventos"`
}

type eventoRowDTO struct {
	ID           int64   `json:"cdevento"`
	TipoEventoID *int64  `json:"cdtipoevento"`
	Name         string  `json:"nmevento"`
	Description  *string `json:"descricao"`
	Date         string  `json:"dtevento"`
	Time         string  `json:"horaevento"`
	Address      *string `json:"enderecoevento"`
	SociedadeID  *int64  `json:"cdsociedade"`
	Image        *string `json:"imagemevento"`
	Active       bool    `json:"ativo"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toEventoRow(e persistence.Evento) eventoRowDTO {
	return eventoRowDTO{
		ID:           e.ID,
		TipoEventoID: e.TipoEventoID,
		Name:         e.Name,
		Description:  e.Description,
		Date:         e.Date,
		Time:         e.Time,
		Address:      e.Address,
		SociedadeID:  e.SociedadeID,
		Image:        e.Image,
		Active:       e.Active,
		CreatedAt:    formatTimestamp(e.CreatedAt),
		UpdatedAt:    formatTimestamp(e.UpdatedAt),
	}
}

type eventoViewDTO struct {
	ID               int64   `json:"cdEvento"`
	TipoEventoID     *int64  `json:"cdTipoEvento"`
	Name             string  `json:"nmEvento"`
	Description      *string `json:"descricao"`
	Date             string  `json:"dtEvento"`
	Time             string  `json:"horaEvento"`
	Address          *string `json:"enderecoEvento"`
	SociedadeID      *int64  `json:"cdSociedade"`
	Image            *string `json:"imagemEvento"`
	Active           bool    `json:"ativo"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	TipoEventoName   *string `json:"nmTipoEvento"`
	SociedadeName    *string `json:"nmSociedade"`
	SociedadeAcronym *string `json:"siglaSociedade"`
}

func toEventoView(v persistence.EventoView) eventoViewDTO {
	return eventoViewDTO{
		ID:               v.ID,
		TipoEventoID:     v.TipoEventoID,
		Name:             v.Name,
		Description:      v.Description,
		Date:             v.Date,
		Time:             v.Time,
		Address:          v.Address,
		SociedadeID:      v.SociedadeID,
		Image:            v.Image,
		Active:           v.Active,
		CreatedAt:        formatTimestamp(v.CreatedAt),
		UpdatedAt:        formatTimestamp(v.UpdatedAt),
		TipoEventoName:   v.TipoEventoName,
		SociedadeName:    v.SociedadeName,
		SociedadeAcronym: v.SociedadeAcronym,
	}
}
