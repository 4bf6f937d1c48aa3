package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
)

type authService interface {
	Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error)
	ValidateSession(ctx context.Context, id int64) (bool, error)
}

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

type AuthHandler struct {
	service   authService
	metrics   LoginRecorder
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, metrics LoginRecorder, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, metrics: metrics, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}

// Login checks the credentials and returns the account with the linked
// person's name. No token is issued; the client keeps the account id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Login", "nmlogin", req.Login)
	result, err := h.service.Login(r.Context(), application.LoginParams{Login: req.Login, Password: req.Password})
	if err != nil {
		h.record(loginOutcome(err))
		logger.WarnContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.record("success")
	logger.With("cdusuario", result.Usuario.ID).InfoContext(r.Context(), "user authenticated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{Usuario: authUserDTO{
		ID:         result.Usuario.ID,
		Login:      result.Usuario.Login,
		PessoaID:   result.Usuario.PessoaID,
		Active:     result.Usuario.Active,
		PessoaName: result.PessoaName,
	}})
}

// Session reports whether the account id held by the client is still an
// active user.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Valid: false})
		return
	}

	valid, err := h.service.ValidateSession(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Session", "cdusuario", id).ErrorContext(r.Context(), "session validation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Valid: valid})
}

func loginOutcome(err error) string {
	var vErr *application.ValidationError
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return "invalid"
	case errors.Is(err, application.ErrAccountDisabled):
		return "disabled"
	case errors.As(err, &vErr):
		return "invalid"
	default:
		return "error"
	}
}

type loginRequest struct {
	Login    string `json:"nmLogin"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Usuario authUserDTO `json:"usuario"`
}

type authUserDTO struct {
	ID         int64   `json:"cdUsuario"`
	Login      string  `json:"nmLogin"`
	PessoaID   *int64  `json:"cdpessoa"`
	Active     bool    `json:"ativo"`
	PessoaName *string `json:"nomePessoa,omitempty"`
}

type sessionResponse struct {
	Valid bool `json:"valid"`
}
