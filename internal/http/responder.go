package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/church-registry/internal/application"
)

var (
	errBadRequestBody = errors.New("Corpo da requisição inválido")
	errInvalidID      = errors.New("Identificador inválido")
	errInvalidFilter  = errors.New("Parâmetro de filtro inválido")
)

const (
	msgInvalidCredentials = "Login ou senha inválidos"
	msgAccountDisabled    = "Usuário inativo. Entre em contato com o administrador."
	msgNotFound           = "Registro não encontrado"
	msgTooManyRequests    = "Muitas tentativas. Aguarde alguns instantes."
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
	}
	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto status codes. Unknown
// errors surface their message with a 500.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("erro desconhecido"))
		return
	}

	var vErr *application.ValidationError
	var cErr *application.ConflictError
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: vErr.Error(), Fields: vErr.FieldErrors})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: msgInvalidCredentials})
	case errors.Is(err, application.ErrAccountDisabled):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Message: msgAccountDisabled})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: msgNotFound})
	case errors.As(err, &cErr):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: cErr.Message})
	case errors.Is(err, application.ErrConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: localizedStatusMessage(http.StatusConflict)})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", http.StatusInternalServerError, "error", err)
		r.writeError(ctx, w, http.StatusInternalServerError, err)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requisição inválida"
	case http.StatusUnauthorized:
		return msgInvalidCredentials
	case http.StatusForbidden:
		return "Operação não permitida"
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return "Registro em conflito com dados existentes"
	case http.StatusTooManyRequests:
		return msgTooManyRequests
	default:
		return "Erro interno no servidor"
	}
}

type errorResponse struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"campos,omitempty"`
}
