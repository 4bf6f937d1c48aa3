package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
)

type dashboardService interface {
	Summary(ctx context.Context) (application.DashboardSummary, error)
}

type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		handlerLogger(r.Context(), h.logger, "DashboardHandler", "Summary").ErrorContext(r.Context(), "dashboard summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	societies := make([]sociedadeCountDTO, 0, len(summary.MembrosPorSociedade))
	for _, s := range summary.MembrosPorSociedade {
		societies = append(societies, sociedadeCountDTO{ID: s.ID, Name: s.Name, Acronym: s.Acronym, Members: s.Members})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		TotalMembros:        summary.TotalMembros,
		TotalEventosMes:     summary.TotalEventosMes,
		AniversariantesMes:  summary.AniversariantesMes,
		ConselhoAtivo:       summary.ConselhoAtivo,
		MembrosPorSociedade: societies,
	})
}

type dashboardResponse struct {
	TotalMembros        int                 `json:"totalMembros"`
	TotalEventosMes     int                 `json:"totalEventosMes"`
	AniversariantesMes  int                 `json:"aniversariantesMes"`
	ConselhoAtivo       int                 `json:"conselhoAtivo"`
	MembrosPorSociedade []sociedadeCountDTO `json:"membrosPorSociedade"`
}

type sociedadeCountDTO struct {
	ID      int64   `json:"cdSociedade"`
	Name    string  `json:"nmSociedade"`
	Acronym *string `json:"sigla"`
	Members int     `json:"totalMembros"`
}
