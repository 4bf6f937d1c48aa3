package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/church-registry/internal/application"
	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

type catalogService interface {
	List(ctx context.Context, kind persistence.CatalogKind) ([]persistence.CatalogItem, error)
	Create(ctx context.Context, kind persistence.CatalogKind, name string) (persistence.CatalogItem, error)
	Update(ctx context.Context, kind persistence.CatalogKind, id int64, name patch.Field[string]) (persistence.CatalogItem, error)
	Delete(ctx context.Context, kind persistence.CatalogKind, id int64) error
}

// CatalogHandler serves one lookup table. Rows are keyed by the table's own
// column names, so tipopessoa rows carry cdtipopessoa and nmtipopessoa.
type CatalogHandler struct {
	service   catalogService
	kind      persistence.CatalogKind
	listKey   string
	itemKey   string
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, kind persistence.CatalogKind, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	listKey, itemKey := catalogEnvelopeKeys(kind)
	return &CatalogHandler{
		service:   service,
		kind:      kind,
		listKey:   listKey,
		itemKey:   itemKey,
		responder: newResponder(base),
		logger:    base,
	}
}

func catalogEnvelopeKeys(kind persistence.CatalogKind) (list, item string) {
	switch kind.Table {
	case persistence.TipoPessoaCatalog.Table:
		return "tipospessoa", "tipopessoa"
	case persistence.TipoEventoCatalog.Table:
		return "tiposevento", "tipoevento"
	default:
		return "tipos", "tipo"
	}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, append([]any{"table", h.kind.Table}, attrs...)...)
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := h.service.List(r.Context(), h.kind)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "catalog list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, h.toDTO(item))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{h.listKey: out})
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	name, err := h.decodeName(w, r)
	if err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode catalog request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")
	item, err := h.service.Create(r.Context(), h.kind, name.Value)
	if err != nil {
		logger.WarnContext(r.Context(), "catalog create failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("id", item.ID).InfoContext(r.Context(), "catalog item created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]any{h.itemKey: h.toDTO(item)})
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	name, err := h.decodeName(w, r)
	if err != nil {
		h.log(r.Context(), "Update", "id", id, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode catalog update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "id", id)
	item, err := h.service.Update(r.Context(), h.kind, id, name)
	if err != nil {
		logger.WarnContext(r.Context(), "catalog update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "catalog item updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]any{h.itemKey: h.toDTO(item)})
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Delete", "id", id)
	if err := h.service.Delete(r.Context(), h.kind, id); err != nil {
		logger.WarnContext(r.Context(), "catalog delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "catalog item deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// decodeName pulls the table's name column out of the body.
func (h *CatalogHandler) decodeName(w http.ResponseWriter, r *http.Request) (patch.Field[string], error) {
	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		return patch.Field[string]{}, err
	}
	var name patch.Field[string]
	if raw, ok := body[h.kind.NameColumn]; ok {
		if err := name.UnmarshalJSON(raw); err != nil {
			return patch.Field[string]{}, err
		}
	}
	return name, nil
}

func (h *CatalogHandler) toDTO(item persistence.CatalogItem) map[string]any {
	return map[string]any{
		h.kind.IDColumn:   item.ID,
		h.kind.NameColumn: item.Name,
		"created_at":      formatTimestamp(item.CreatedAt),
		"updated_at":      formatTimestamp(item.UpdatedAt),
	}
}
