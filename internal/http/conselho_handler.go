package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type conselhoService interface {
	CreateConselho(ctx context.Context, input application.ConselhoInput) (persistence.Conselho, error)
	UpdateConselho(ctx context.Context, id int64, p application.ConselhoPatch) (persistence.Conselho, error)
	DeleteConselho(ctx context.Context, id int64) error
	GetConselho(ctx context.Context, id int64) (persistence.ConselhoView, error)
	ListConselho(ctx context.Context) ([]persistence.ConselhoView, error)
}

type ConselhoHandler struct {
	service   conselhoService
	responder responder
	logger    *slog.Logger
}

func NewConselhoHandler(service conselhoService, logger *slog.Logger) *ConselhoHandler {
	base := defaultLogger(logger)
	return &ConselhoHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ConselhoHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ConselhoHandler", operation, attrs...)
}

func (h *ConselhoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conselhoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode conselho request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	entry, err := h.service.CreateConselho(r.Context(), application.ConselhoInput{
		PessoaID:  req.PessoaID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		Active:    req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "conselho creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdlider", entry.ID).InfoContext(r.Context(), "conselho entry created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, conselhoResponse{Conselho: toConselhoRow(entry)})
}

func (h *ConselhoHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req conselhoPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdlider", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode conselho update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdlider", id)
	entry, err := h.service.UpdateConselho(r.Context(), id, application.ConselhoPatch{
		PessoaID:  req.PessoaID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		Active:    req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "conselho update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "conselho entry updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conselhoResponse{Conselho: toConselhoRow(entry)})
}

func (h *ConselhoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Delete", "cdlider", id)
	if err := h.service.DeleteConselho(r.Context(), id); err != nil {
		logger.WarnContext(r.Context(), "conselho delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "conselho entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ConselhoHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	view, err := h.service.GetConselho(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "cdlider", id).WarnContext(r.Context(), "conselho lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, conselhoViewResponse{Conselho: toConselhoView(view)})
}

func (h *ConselhoHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views, err := h.service.ListConselho(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "conselho list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]conselhoViewDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toConselhoView(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listConselhoResponse{Conselho: out})
}

type conselhoRequest struct {
	PessoaID  *int64  `json:"cdpessoa"`
	StartDate string  `json:"datainicio"`
	EndDate   *string `json:"datafim"`
	Notes     *string `json:"observacao"`
	Active    *bool   `json:"ativo"`
}

type conselhoPatchRequest struct {
	PessoaID  patch.Field[int64]  `json:"cdpessoa"`
	StartDate patch.Field[string] `json:"datainicio"`
	EndDate   patch.Field[string] `json:"datafim"`
	Notes     patch.Field[string] `json:"observacao"`
	Active    patch.Field[bool]   `json:"ativo"`
}

type conselhoResponse struct {
	Conselho conselhoRowDTO `json:"conselho"`
}

type conselhoViewResponse struct {
	Conselho conselhoViewDTO `json:"conselho"`
}

type listConselhoResponse struct {
	Conselho []conselhoViewDTO `json:"conselho"`
}

type conselhoRowDTO struct {
	ID        int64   `json:"cdlider"`
	PessoaID  int64   `json:"cdpessoa"`
	StartDate string  `json:"datainicio"`
	EndDate   *string `json:"datafim"`
	Notes     *string `json:"observacao"`
	Active    bool    `json:"ativo"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toConselhoRow(c persistence.Conselho) conselhoRowDTO {
	return conselhoRowDTO{
		ID:        c.ID,
		PessoaID:  c.PessoaID,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Notes:     c.Notes,
		Active:    c.Active,
		CreatedAt: formatTimestamp(c.CreatedAt),
		UpdatedAt: formatTimestamp(c.UpdatedAt),
	}
}

// conselhoViewDTO carries the person type name as cargo.
type conselhoViewDTO struct {
	ID           int64   `json:"cdLider"`
	PessoaID     int64   `json:"cdpessoa"`
	StartDate    string  `json:"datainicio"`
	EndDate      *string `json:"datafim"`
	Notes        *string `json:"observacao"`
	Active       bool    `json:"ativo"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	PessoaName   string  `json:"nmPessoa"`
	PessoaPhoto  *string `json:"fotoPessoa"`
	PessoaPhone  *string `json:"telefone"`
	PessoaEmail  *string `json:"email"`
	Cargo        *string `json:"cargo"`
	TipoPessoaID *int64  `json:"cdTipoPessoa"`
}

func toConselhoView(v persistence.ConselhoView) conselhoViewDTO {
	return conselhoViewDTO{
		ID:           v.ID,
		PessoaID:     v.PessoaID,
		StartDate:    v.StartDate,
		EndDate:      v.EndDate,
		Notes:        v.Notes,
		Active:       v.Active,
		CreatedAt:    formatTimestamp(v.CreatedAt),
		UpdatedAt:    formatTimestamp(v.UpdatedAt),
		PessoaName:   v.PessoaName,
		PessoaPhoto:  v.PessoaPhoto,
		PessoaPhone:  v.PessoaPhone,
		PessoaEmail:  v.PessoaEmail,
		Cargo:        v.TipoPessoaName,
		TipoPessoaID: v.TipoPessoaID,
	}
}
