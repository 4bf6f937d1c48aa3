package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type usuarioService interface {
	CreateUsuario(ctx context.Context, input application.UsuarioInput) (persistence.Usuario, error)
	UpdateUsuario(ctx context.Context, id int64, p application.UsuarioPatch) (persistence.Usuario, error)
	DeactivateUsuario(ctx context.Context, id int64) (persistence.Usuario, error)
	GetUsuario(ctx context.Context, id int64) (persistence.Usuario, error)
	ListUsuarios(ctx context.Context, filter persistence.UsuarioFilter) ([]persistence.Usuario, error)
}

type UsuarioHandler struct {
	service   usuarioService
	responder responder
	logger    *slog.Logger
}

func NewUsuarioHandler(service usuarioService, logger *slog.Logger) *UsuarioHandler {
	base := defaultLogger(logger)
	return &UsuarioHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UsuarioHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UsuarioHandler", operation, attrs...)
}

func (h *UsuarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req usuarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode usuario request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "nmlogin", req.Login)
	usuario, err := h.service.CreateUsuario(r.Context(), application.UsuarioInput{
		Login:    req.Login,
		Password: req.Password,
		PessoaID: req.PessoaID,
		Active:   req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "usuario creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("cdusuario", usuario.ID).InfoContext(r.Context(), "usuario created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, usuarioResponse{Usuario: toUsuarioDTO(usuario)})
}

func (h *UsuarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	var req usuarioPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "cdusuario", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode usuario update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "cdusuario", id, "password_changed", req.Password.Present())
	usuario, err := h.service.UpdateUsuario(r.Context(), id, application.UsuarioPatch{
		Login:    req.Login,
		Password: req.Password,
		PessoaID: req.PessoaID,
		Active:   req.Active,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "usuario update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "usuario updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, usuarioResponse{Usuario: toUsuarioDTO(usuario)})
}

func (h *UsuarioHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Deactivate", "cdusuario", id)
	usuario, err := h.service.DeactivateUsuario(r.Context(), id)
	if err != nil {
		logger.WarnContext(r.Context(), "usuario deactivation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "usuario deactivated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, usuarioResponse{Usuario: toUsuarioDTO(usuario)})
}

func (h *UsuarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	usuario, err := h.service.GetUsuario(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "cdusuario", id).WarnContext(r.Context(), "usuario lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, usuarioResponse{Usuario: toUsuarioDTO(usuario)})
}

func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activeOnly, err := queryBool(r, "ativos")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	usuarios, err := h.service.ListUsuarios(r.Context(), persistence.UsuarioFilter{ActiveOnly: activeOnly != nil && *activeOnly})
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "usuario list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]usuarioDTO, 0, len(usuarios))
	for _, usuario := range usuarios {
		out = append(out, toUsuarioDTO(usuario))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listUsuariosResponse{Usuarios: out})
}

type usuarioRequest struct {
	Login    string `json:"nmlogin"`
	Password string `json:"senha"`
	PessoaID *int64 `json:"cdpessoa"`
	Active   *bool  `json:"ativo"`
}

type usuarioPatchRequest struct {
	Login    patch.Field[string] `json:"nmlogin"`
	Password patch.Field[string] `json:"senha"`
	PessoaID patch.Field[int64]  `json:"cdpessoa"`
	Active   patch.Field[bool]   `json:"ativo"`
}

type usuarioResponse struct {
	Usuario usuarioDTO `json:"usuario"`
}

type listUsuariosResponse struct {
	Usuarios []usuarioDTO `json:"usuarios"`
}

// usuarioDTO never carries the password hash.
type usuarioDTO struct {
	ID         int64   `json:"cdusuario"`
	Login      string  `json:"nmlogin"`
	PessoaID   *int64  `json:"cdpessoa"`
	Active     bool    `json:"ativo"`
	LastAccess *string `json:"ultimo_acesso"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toUsuarioDTO(u persistence.Usuario) usuarioDTO {
	return usuarioDTO{
		ID:         u.ID,
		Login:      u.Login,
		PessoaID:   u.PessoaID,
		Active:     u.Active,
		LastAccess: formatTimestampPtr(u.LastAccess),
		CreatedAt:  formatTimestamp(u.CreatedAt),
		UpdatedAt:  formatTimestamp(u.UpdatedAt),
	}
}
