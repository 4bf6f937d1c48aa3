package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// RouterConfig carries the handlers and cross-cutting pieces mounted by
// NewRouter. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	TipoPessoa       *CatalogHandler
	TipoEvento       *CatalogHandler
	Cargos           *CatalogHandler
	Pessoas          *PessoaHandler
	Sociedades       *SociedadeHandler
	PessoaSociedades *PessoaSociedadeHandler
	Eventos          *EventoHandler
	Conselho         *ConselhoHandler
	Usuarios         *UsuarioHandler
	Auth             *AuthHandler
	Uploads          *UploadHandler
	Dashboard        *DashboardHandler

	// Instrument wraps every matched route; Metrics serves /metrics.
	Instrument mux.MiddlewareFunc
	Metrics    http.Handler
	// Files serves stored objects under /files/.
	Files        http.Handler
	LoginLimiter *LoginLimiter
	// Middleware wraps the whole router, outermost first.
	Middleware []func(http.Handler) http.Handler
	Logger     *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	responder := newResponder(cfg.Logger)
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.writeError(r.Context(), w, http.StatusNotFound, nil)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder.writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorResponse{Message: "Método não permitido"})
	})
	if cfg.Instrument != nil {
		router.Use(cfg.Instrument)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		responder.writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"ok": true})
	}).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}
	if cfg.Files != nil {
		router.PathPrefix("/files/").Handler(cfg.Files).Methods(http.MethodGet, http.MethodHead)
	}

	api := router.PathPrefix("/api").Subrouter()

	catalogs := []struct {
		path    string
		handler *CatalogHandler
	}{
		{"/tipopessoa", cfg.TipoPessoa},
		{"/tipoevento", cfg.TipoEvento},
		{"/pessoatiposociedade", cfg.Cargos},
	}
	for _, c := range catalogs {
		if c.handler == nil {
			continue
		}
		api.HandleFunc(c.path, c.handler.List).Methods(http.MethodGet)
		api.HandleFunc(c.path, c.handler.Create).Methods(http.MethodPost)
		api.HandleFunc(c.path+"/{id}", c.handler.Update).Methods(http.MethodPatch)
		api.HandleFunc(c.path+"/{id}", c.handler.Delete).Methods(http.MethodDelete)
	}

	if h := cfg.Pessoas; h != nil {
		api.HandleFunc("/pessoa", h.List).Methods(http.MethodGet)
		api.HandleFunc("/pessoa", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/pessoa/{id}", h.Get).Methods(http.MethodGet)
		api.HandleFunc("/pessoa/{id}", h.Update).Methods(http.MethodPatch)
		api.HandleFunc("/pessoa/{id}/sociedades", h.ListSociedades).Methods(http.MethodGet)
	}

	if h := cfg.Sociedades; h != nil {
		api.HandleFunc("/sociedades", h.List).Methods(http.MethodGet)
		api.HandleFunc("/sociedades", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/sociedades/{id}", h.Get).Methods(http.MethodGet)
		api.HandleFunc("/sociedades/{id}", h.Update).Methods(http.MethodPatch)
		api.HandleFunc("/sociedades/{id}/deactivate", h.Deactivate).Methods(http.MethodPatch)
		api.HandleFunc("/sociedades/{id}/membros", h.ListMembros).Methods(http.MethodGet)
	}

	if h := cfg.PessoaSociedades; h != nil {
		api.HandleFunc("/pessoassociedade", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/pessoassociedade/{id}", h.Update).Methods(http.MethodPatch)
	}

	if h := cfg.Eventos; h != nil {
		api.HandleFunc("/eventos", h.List).Methods(http.MethodGet)
		api.HandleFunc("/eventos", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/eventos/{id}", h.Get).Methods(http.MethodGet)
		api.HandleFunc("/eventos/{id}", h.Update).Methods(http.MethodPatch)
		api.HandleFunc("/eventos/{id}/deactivate", h.Deactivate).Methods(http.MethodPatch)
	}

	if h := cfg.Conselho; h != nil {
		api.HandleFunc("/conselho", h.List).Methods(http.MethodGet)
		api.HandleFunc("/conselho", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/conselho/{id}", h.Get).Methods(http.MethodGet)
		api.HandleFunc("/conselho/{id}", h.Update).Methods(http.MethodPatch)
		api.HandleFunc("/conselho/{id}", h.Delete).Methods(http.MethodDelete)
	}

	if h := cfg.Usuarios; h != nil {
		api.HandleFunc("/usuario", h.List).Methods(http.MethodGet)
		api.HandleFunc("/usuario", h.Create).Methods(http.MethodPost)
		api.HandleFunc("/usuario/{id}", h.Get).Methods(http.MethodGet)
		api.HandleFunc("/usuario/{id}", h.Update).Methods(http.MethodPatch)
		api.HandleFunc("/usuario/{id}/deactivate", h.Deactivate).Methods(http.MethodPatch)
	}

	if h := cfg.Auth; h != nil {
		var login http.Handler = http.HandlerFunc(h.Login)
		if cfg.LoginLimiter != nil {
			login = cfg.LoginLimiter.Handler(login)
		}
		api.Handle("/auth/login", login).Methods(http.MethodPost)
		api.HandleFunc("/auth/session/{id}", h.Session).Methods(http.MethodGet)
	}

	if h := cfg.Uploads; h != nil {
		api.HandleFunc("/upload/pessoa/{id}", h.Pessoa).Methods(http.MethodPost)
		api.HandleFunc("/upload/evento/{id}", h.Evento).Methods(http.MethodPost)
	}

	if h := cfg.Dashboard; h != nil {
		api.HandleFunc("/dashboard", h.Summary).Methods(http.MethodGet)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
