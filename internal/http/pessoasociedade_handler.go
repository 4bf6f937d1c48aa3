package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type pessoaSociedadeService interface {
	CreateLink(ctx context.Context, input application.PessoaSociedadeInput) (persistence.PessoaSociedade, error)
	UpdateLink(ctx context.Context, id int64, p application.PessoaSociedadePatch) (persistence.PessoaSociedade, error)
}

type PessoaSociedadeHandler struct {
	service   pessoaSociedadeService
	responder responder
	logger    *slog.Logger
}

func NewPessoaSociedadeHandler(service pessoaSociedadeService, logger *slog.Logger) *PessoaSociedadeHandler {
	base := defaultLogger(logger)
	return &PessoaSociedadeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PessoaSociedadeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PessoaSociedadeHandler", operation, attrs...)
}

func (h *PessoaSociedadeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode link request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	link, err := h.service.CreateLink(r.Context(), application.PessoaSociedadeInput{
		PessoaID:    req.PessoaID,
		SociedadeID: req.SociedadeID,
		Role:        req.Role,
		RoleTypeID:  req.RoleTypeID,
		JoinedOn:    req.JoinedOn,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "link creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdpessoasociedade", link.ID).InfoContext(r.Context(), "link created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, linkResponse{Link: toLinkRow(link)})
}

// Update applies a partial update; an empty body deactivates the link.
func (h *PessoaSociedadeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	// Unknown keys are rejected; only an empty object deactivates the link.
	var req linkPatchRequest
	if err := decodeStrictJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdpessoasociedade", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode link update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdpessoasociedade", id)
	link, err := h.service.UpdateLink(r.Context(), id, application.PessoaSociedadePatch{
		Role:       req.Role,
		RoleTypeID: req.RoleTypeID,
		JoinedOn:   req.JoinedOn,
		Active:     req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "link update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("ativo", link.Active).InfoContext(r.Context(), "link updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, linkResponse{Link: toLinkRow(link)})
}

type linkRequest struct {
	PessoaID    *int64  `json:"cdpessoa"`
	SociedadeID *int64  `json:"cdsociedade"`
	Role        *string `json:"cargo"`
	RoleTypeID  *int64  `json:"cdpessoatiposociedade"`
	JoinedOn    *string `json:"dataentrada"`
}

type linkPatchRequest struct {
	Role       patch.Field[string] `json:"cargo"`
	RoleTypeID patch.Field[int64]  `json:"cdpessoatiposociedade"`
	JoinedOn   patch.Field[string] `json:"dataentrada"`
	Active     patch.Field[bool]   `json:"ativo"`
}

type linkResponse struct {
	Link linkRowDTO `json:"pessoassociedade"`
}

type linkRowDTO struct {
	ID          int64   `json:"cdpessoasociedade"`
	PessoaID    int64   `json:"cdpessoa"`
	SociedadeID int64   `json:"cdsociedade"`
	Role        *string `json:"cargo"`
	RoleTypeID  *int64  `json:"cdpessoatiposociedade"`
	JoinedOn    string  `json:"dataentrada"`
	Active      bool    `json:"ativo"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toLinkRow(link persistence.PessoaSociedade) linkRowDTO {
	return linkRowDTO{
		ID:          link.ID,
		PessoaID:    link.PessoaID,
		SociedadeID: link.SociedadeID,
		Role:        link.Role,
		RoleTypeID:  link.RoleTypeID,
		JoinedOn:    link.JoinedOn,
		Active:      link.Active,
		CreatedAt:   formatTimestamp(link.CreatedAt),
		UpdatedAt:   formatTimestamp(link.UpdatedAt),
	}
}
