package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type sociedadeService interface {
	CreateSociedade(ctx context.Context, input application.SociedadeInput) (persistence.Sociedade, error)
	UpdateSociedade(ctx context.Context, id int64, p application.SociedadePatch) (persistence.Sociedade, error)
	DeactivateSociedade(ctx context.Context, id int64) (persistence.Sociedade, error)
	GetSociedade(ctx context.Context, id int64) (persistence.Sociedade, error)
	ListSociedades(ctx context.Context, filter persistence.SociedadeFilter) ([]persistence.Sociedade, error)
	ListMembros(ctx context.Context, id int64) ([]persistence.MembroView, error)
}

type SociedadeHandler struct {
	service   sociedadeService
	responder responder
	logger    *slog.Logger
}

func NewSociedadeHandler(service sociedadeService, logger *slog.Logger) *SociedadeHandler {
	base := defaultLogger(logger)
	return &SociedadeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SociedadeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SociedadeHandler", operation, attrs...)
}

func (h *SociedadeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sociedadeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode sociedade request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	sociedade, err := h.service.CreateSociedade(r.Context(), application.SociedadeInput{
		Name:        req.Name,
		Acronym:     req.Acronym,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "sociedade creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdsociedade", sociedade.ID).InfoContext(r.Context(), "sociedade created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sociedadeResponse{Sociedade: toSociedadeDTO(sociedade)})
}

func (h *SociedadeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req sociedadePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdsociedade", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode sociedade update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdsociedade", id)
	sociedade, err := h.service.UpdateSociedade(r.Context(), id, application.SociedadePatch{
		Name:        req.Name,
		Acronym:     req.Acronym,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "sociedade update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "sociedade updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sociedadeResponse{Sociedade: toSociedadeDTO(sociedade)})
}

func (h *SociedadeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Deactivate", "cdsociedade", id)
	sociedade, err := h.service.DeactivateSociedade(r.Context(), id)
	if err != nil {
		logger.WarnContext(r.Context(), "sociedade deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "sociedade deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sociedadeResponse{Sociedade: toSociedadeDTO(sociedade)})
}

func (h *SociedadeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	sociedade, err := h.service.GetSociedade(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "cdsociedade", id).WarnContext(r.Context(), "sociedade lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sociedadeResponse{Sociedade: toSociedadeDTO(sociedade)})
}

func (h *SociedadeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	all, err := queryBool(r, "todas")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	filter := persistence.SociedadeFilter{IncludeInactive: all != nil && *all}
	sociedades, err := h.service.ListSociedades(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "sociedade list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]sociedadeDTO, 0, len(sociedades))
	for _, sociedade := range sociedades {
		out = append(out, toSociedadeDTO(sociedade))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSociedadesResponse{Sociedades: out})
}

func (h *SociedadeHandler) ListMembros(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	members, err := h.service.ListMembros(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "ListMembros", "cdsociedade", id).WarnContext(r.Context(), "sociedade members lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]membroDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toMembroDTO(member))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMembrosResponse{Membros: out})
}

type sociedadeRequest struct {
	Name        string  `json:"nmSociedade"`
	Acronym     *string `json:"sigla"`
	Description *string `json:"descricao"`
	Active      *bool   `json:"ativo"`
}

type sociedadePatchRequest struct {
	Name        patch.Field[string] `json:"nmSociedade"`
	Acronym     patch.Field[string] `json:"sigla"`
	Description patch.Field[string] `json:"descricao"`
	Active      patch.Field[bool]   `json:"ativo"`
}

type sociedadeResponse struct {
	Sociedade sociedadeDTO `json:"sociedade"`
}

type listSociedadesResponse struct {
	Sociedades []sociedadeDTO `json:"sociedades"`
}

type listMembrosResponse struct {
	Membros []membroDTO `json:"membros"`
}

type sociedadeDTO struct {
	ID          int64   `json:"cdsociedade"`
	Name        string  `json:"nmsociedade"`
	Acronym     *string `json:"sigla"`
	Description *string `json:"descricao"`
	Active      bool    `json:"ativo"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toSociedadeDTO(s persistence.Sociedade) sociedadeDTO {
	return sociedadeDTO{
		ID:          s.ID,
		Name:        s.Name,
		Acronym:     s.Acronym,
		Description: s.Description,
		Active:      s.Active,
		CreatedAt:   formatTimestamp(s.CreatedAt),
		UpdatedAt:   formatTimestamp(s.UpdatedAt),
	}
}

type membroDTO struct {
	ID          int64           `json:"cdpessoasociedade"`
	PessoaID    int64           `json:"cdpessoa"`
	SociedadeID int64           `json:"cdsociedade"`
	Role        *string         `json:"cargo"`
	RoleTypeID  *int64          `json:"cdpessoatiposociedade"`
	JoinedOn    string          `json:"dataentrada"`
	Active      bool            `json:"ativo"`
	CargoLabel  *string         `json:"cargoLabel"`
	Pessoa      membroPessoaDTO `json:"pessoa"`
}

type membroPessoaDTO struct {
	ID    int64   `json:"cdpessoa"`
	Name  string  `json:"nmPessoa"`
	Photo *string `json:"fotoPessoa"`
	Phone *string `json:"telefone"`
	Email *string `json:"email"`
}

func toMembroDTO(m persistence.MembroView) membroDTO {
	return membroDTO{
		ID:          m.ID,
		PessoaID:    m.PessoaID,
		SociedadeID: m.SociedadeID,
		Role:        m.Role,
		RoleTypeID:  m.RoleTypeID,
		JoinedOn:    m.JoinedOn,
		Active:      m.Active,
		CargoLabel:  m.RoleLabel(),
		Pessoa: membroPessoaDTO{
			ID:    m.PessoaID,
			Name:  m.PessoaName,
			Photo: m.PessoaPhoto,
			Phone: m.PessoaPhone,
			Email: m.PessoaEmail,
		},
	}
}
