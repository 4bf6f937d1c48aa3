package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/example/church-registry/internal/application"
)

const defaultMaxUploadBytes = 10 << 20

var errUploadTooLarge = errors.New("Arquivo excede o tamanho máximo permitido")

type uploadService interface {
	Upload(ctx context.Context, params application.UploadParams) (string, error)
}

// UploadRecorder counts stored uploads.
type UploadRecorder interface {
	RecordUpload(target string, success bool)
}

type UploadHandler struct {
	service   uploadService
	maxBytes  int64
	metrics   UploadRecorder
	responder responder
	logger    *slog.Logger
}

func NewUploadHandler(service uploadService, maxBytes int64, metrics UploadRecorder, logger *slog.Logger) *UploadHandler {
	base := defaultLogger(logger)
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadHandler{service: service, maxBytes: maxBytes, metrics: metrics, responder: newResponder(base), logger: base}
}

func (h *UploadHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UploadHandler", operation, attrs...)
}

// Pessoa stores a person photo from the multipart field "file".
func (h *UploadHandler) Pessoa(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, application.UploadPessoa)
}

// Evento stores an event image from the multipart field "file".
func (h *UploadHandler) Evento(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, application.UploadEvento)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, target application.UploadTarget) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Upload", "target", string(target), "id", id)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	params := application.UploadParams{Target: target, ID: id}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		params.Body = file
		params.Filename = header.Filename
		params.ContentType = uploadContentType(header)
		params.Size = header.Size
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart), errors.Is(err, io.EOF):
		// the service reports the missing file
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(r.Context(), "upload over size limit", "limit", h.maxBytes)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUploadTooLarge)
			return
		}
		logger.WarnContext(r.Context(), "failed to parse multipart body", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	url, err := h.service.Upload(r.Context(), params)
	if h.metrics != nil && params.Body != nil {
		h.metrics.RecordUpload(string(target), err == nil)
	}
	if err != nil {
		logger.WarnContext(r.Context(), "upload failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("url", url).InfoContext(r.Context(), "file uploaded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, uploadResponse{URL: url})
}

func uploadContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

type uploadResponse struct {
	URL string `json:"url"`
}
