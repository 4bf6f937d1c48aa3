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

type pessoaService interface {
	CreatePessoa(ctx context.Context, input application.PessoaInput) (persistence.Pessoa, error)
	UpdatePessoa(ctx context.Context, id int64, p application.PessoaPatch) (persistence.Pessoa, error)
	GetPessoa(ctx context.Context, id int64) (application.PessoaDetails, error)
	ListPessoas(ctx context.Context, filter persistence.PessoaFilter) ([]application.PessoaDetails, error)
	ListPessoaSociedades(ctx context.Context, id int64) ([]persistence.SociedadeLinkView, error)
}

type PessoaHandler struct {
	service   pessoaService
	responder responder
	logger    *slog.Logger
}

func NewPessoaHandler(service pessoaService, logger *slog.Logger) *PessoaHandler {
	base := defaultLogger(logger)
	return &PessoaHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PessoaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PessoaHandler", operation, attrs...)
}

func (h *PessoaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req pessoaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode pessoa request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	pessoa, err := h.service.CreatePessoa(r.Context(), req.toInput())
	if err != nil {
		logger.WarnContext(r.Context(), "pessoa creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdpessoa", pessoa.ID).InfoContext(r.Context(), "pessoa created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, pessoaResponse{Pessoa: toPessoaRow(pessoa)})
}

func (h *PessoaHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req pessoaPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdpessoa", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode pessoa update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdpessoa", id)
	pessoa, err := h.service.UpdatePessoa(r.Context(), id, req.toPatch())
	if err != nil {
		logger.WarnContext(r.Context(), "pessoa update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "pessoa updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, pessoaResponse{Pessoa: toPessoaRow(pessoa)})
}

func (h *PessoaHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	details, err := h.service.GetPessoa(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "cdpessoa", id).WarnContext(r.Context(), "pessoa lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, pessoaViewResponse{Pessoa: toPessoaView(details)})
}

func (h *PessoaHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := pessoaFilterFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "List")
	people, err := h.service.ListPessoas(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "pessoa list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]pessoaViewDTO, 0, len(people))
	for _, details := range people {
		out = append(out, toPessoaView(details))
	}
	logger.With("result_count", len(out)).DebugContext(r.Context(), "pessoas listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPessoasResponse{Pessoas: out})
}

func (h *PessoaHandler) ListSociedades(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	links, err := h.service.ListPessoaSociedades(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "ListSociedades", "cdpessoa", id).WarnContext(r.Context(), "pessoa links lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, pessoaSociedadesResponse{Sociedades: toLinkDTOs(links)})
}

func pessoaFilterFromQuery(r *http.Request) (persistence.PessoaFilter, error) {
	var (
		filter persistence.PessoaFilter
		err    error
	)
	if filter.TipoPessoaID, err = queryInt64(r, "tipo"); err != nil {
		return filter, err
	}
	if filter.SociedadeID, err = queryInt64(r, "sociedade"); err != nil {
		return filter, err
	}
	if filter.Active, err = queryBool(r, "ativo"); err != nil {
		return filter, err
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("busca"))
	return filter, nil
}

type pessoaRequest struct {
	Name         string  `json:"nmpessoa"`
	TipoPessoaID *int64  `json:"cdtipopessoa"`
	Photo        *string `json:"fotopessoa"`
	BirthDate    *string `json:"dtnascimento"`
	Phone        *string `json:"telefone"`
	Email        *string `json:"email"`
	Address      *string `json:"endereco"`
	Active       *bool   `json:"ativo"`
}

func (r pessoaRequest) toInput() application.PessoaInput {
	return application.PessoaInput{
		Name:         r.Name,
		TipoPessoaID: r.TipoPessoaID,
		Photo:        r.Photo,
		BirthDate:    r.BirthDate,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		Active:       r.Active,
	}
}

type pessoaPatchRequest struct {
	Name         patch.Field[string] `json:"nmpessoa"`
	TipoPessoaID patch.Field[int64]  `json:"cdtipopessoa"`
	Photo        patch.Field[string] `json:"fotopessoa"`
	BirthDate    patch.Field[string] `json:"dtnascimento"`
	Phone        patch.Field[string] `json:"telefone"`
	Email        patch.Field[string] `json:"email"`
	Address      patch.Field[string] `json:"endereco"`
	Active       patch.Field[bool]   `json:"ativo"`
}

func (r pessoaPatchRequest) toPatch() application.PessoaPatch {
	return application.PessoaPatch{
		Name:         r.Name,
		TipoPessoaID: r.TipoPessoaID,
		Photo:        r.Photo,
		BirthDate:    r.BirthDate,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		Active:       r.Active,
	}
}

type pessoaResponse struct {
	Pessoa pessoaRowDTO `json:"pessoa"`
}

type pessoaViewResponse struct {
	Pessoa pessoaViewDTO `json:"pessoa"`
}

type listPessoasResponse struct {
	Pessoas []pessoaViewDTO `json:"pessoas"`
}

type pessoaSociedadesResponse struct {
	Sociedades []linkViewDTO `json:"sociedades"`
}

// pessoaRowDTO is the stored row, keyed by column name.
type pessoaRowDTO struct {
	ID           int64   `json:"cdpessoa"`
	Name         string  `json:"nmpessoa"`
	TipoPessoaID *int64  `json:"cdtipopessoa"`
	Photo        *string `json:"fotopessoa"`
	BirthDate    *string `json:"dtnascimento"`
	Phone        *string `json:"telefone"`
	Email        *string `json:"email"`
	Address      *string `json:"endereco"`
	Active       bool    `json:"ativo"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toPessoaRow(p persistence.Pessoa) pessoaRowDTO {
	return pessoaRowDTO{
		ID:           p.ID,
		Name:         p.Name,
		TipoPessoaID: p.TipoPessoaID,
		Photo:        p.Photo,
		BirthDate:    p.BirthDate,
		Phone:        p.Phone,
		Email:        p.Email,
		Address:      p.Address,
		Active:       p.Active,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
}

type pessoaViewDTO struct {
	ID             int64         `json:"cdpessoa"`
	Name           string        `json:"nmPessoa"`
	TipoPessoaID   *int64        `json:"cdTipoPessoa"`
	Photo          *string       `json:"fotoPessoa"`
	BirthDate      *string       `json:"dtNascimento"`
	Phone          *string       `json:"telefone"`
	Email          *string       `json:"email"`
	Address        *string       `json:"endereco"`
	Active         bool          `json:"ativo"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
	TipoPessoaName *string       `json:"nmTipoPessoa"`
	Age            *int          `json:"idade,omitempty"`
	CargoLabel     *string       `json:"cargoLabel"`
	CargoLabels    []string      `json:"cargoLabels"`
	Links          []linkViewDTO `json:"pessoassociedade"`
}

func toPessoaView(d application.PessoaDetails) pessoaViewDTO {
	labels := make([]string, 0, len(d.Links))
	for _, link := range d.Links {
		if label := link.RoleLabel(); label != nil {
			labels = append(labels, *label)
		}
	}
	var first *string
	if len(labels) > 0 {
		first = &labels[0]
	}

	return pessoaViewDTO{
		ID:             d.ID,
		Name:           d.Name,
		TipoPessoaID:   d.TipoPessoaID,
		Photo:          d.Photo,
		BirthDate:      d.BirthDate,
		Phone:          d.Phone,
		Email:          d.Email,
		Address:        d.Address,
		Active:         d.Active,
		CreatedAt:      formatTimestamp(d.CreatedAt),
		UpdatedAt:      formatTimestamp(d.UpdatedAt),
		TipoPessoaName: d.TipoPessoaName,
		Age:            d.Age,
		CargoLabel:     first,
		CargoLabels:    labels,
		Links:          toLinkDTOs(d.Links),
	}
}

// linkViewDTO is an active membership as seen from the person.
type linkViewDTO struct {
	ID               int64   `json:"cdpessoasociedade"`
	PessoaID         int64   `json:"cdpessoa"`
	SociedadeID      int64   `json:"cdsociedade"`
	Role             *string `json:"cargo"`
	RoleTypeID       *int64  `json:"cdpessoatiposociedade"`
	JoinedOn         string  `json:"dataentrada"`
	Active           bool    `json:"ativo"`
	SociedadeName    string  `json:"nmSociedade"`
	SociedadeAcronym *string `json:"sigla"`
	CargoLabel       *string `json:"cargoLabel"`
}

func toLinkDTOs(links []persistence.SociedadeLinkView) []linkViewDTO {
	out := make([]linkViewDTO, 0, len(links))
	for _, link := range links {
		out = append(out, linkViewDTO{
			ID:               link.ID,
			PessoaID:         link.PessoaID,
			SociedadeID:      link.SociedadeID,
			Role:             link.Role,
			RoleTypeID:       link.RoleTypeID,
			JoinedOn:         link.JoinedOn,
			Active:           link.Active,
			SociedadeName:    link.SociedadeName,
			SociedadeAcronym: link.SociedadeAcronym,
			CargoLabel:       link.RoleLabel(),
		})
	}
	return out
}
