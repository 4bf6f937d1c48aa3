package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/example/church-registry/internal/objectstore"
)

const (
	// BucketFotosPessoas holds person photos.
	BucketFotosPessoas = "fotos-pessoas"
	// BucketImagensEventos holds event images.
	BucketImagensEventos = "imagens-eventos"
)

// PhotoStamper records the photo URL on a person.
type PhotoStamper interface {
	SetPessoaPhoto(ctx context.Context, id int64, url string, at time.Time) error
}

// ImageStamper records the image URL on an event.
type ImageStamper interface {
	SetEventoImage(ctx context.Context, id int64, url string, at time.Time) error
}

// UploadParams describes one uploaded file.
type UploadParams struct {
	Target      UploadTarget
	ID          int64
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// UploadService stores files and stamps their public URL on the owning row.
type UploadService struct {
	store   objectstore.Store
	pessoas PhotoStamper
	eventos ImageStamper
	now     func() time.Time
	logger  *slog.Logger
}

// NewUploadService constructs an upload service.
func NewUploadService(store objectstore.Store, pessoas PhotoStamper, eventos ImageStamper, now func() time.Time) *UploadService {
	return NewUploadServiceWithLogger(store, pessoas, eventos, now, nil)
}

// NewUploadServiceWithLogger constructs an upload service with a specified logger.
func NewUploadServiceWithLogger(store objectstore.Store, pessoas PhotoStamper, eventos ImageStamper, now func() time.Time, logger *slog.Logger) *UploadService {
	if now == nil {
		now = time.Now
	}
	return &UploadService{store: store, pessoas: pessoas, eventos: eventos, now: now, logger: defaultLogger(logger)}
}

// Upload stores the file as <target>_<id>_<unix-ms><ext> and returns its
// public URL. A failure to stamp the URL on the row is logged only; the
// file stays stored and the URL is still returned.
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (publicURL string, err error) {
	if s == nil || s.store == nil {
		err = fmt.Errorf("object store not configured")
		return
	}

	logger := serviceLogger(ctx, s.logger, "UploadService", "Upload", "target", string(params.Target), "id", params.ID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "upload failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("url", publicURL).InfoContext(ctx, "upload stored")
	}()

	if params.Body == nil {
		err = requiredError("Arquivo não enviado", "file")
		return
	}

	var bucket string
	switch params.Target {
	case UploadPessoa:
		bucket = BucketFotosPessoas
	case UploadEvento:
		bucket = BucketImagensEventos
	default:
		err = fmt.Errorf("unknown upload target %q", params.Target)
		return
	}

	now := s.now()
	name := fmt.Sprintf("%s_%d_%d%s", params.Target, params.ID, now.UnixMilli(), filepath.Ext(params.Filename))

	publicURL, err = s.store.Put(ctx, objectstore.Object{
		Bucket:      bucket,
		Name:        name,
		ContentType: params.ContentType,
		Body:        params.Body,
		Size:        params.Size,
	})
	if err != nil {
		return
	}

	var stampErr error
	switch params.Target {
	case UploadPessoa:
		if s.pessoas != nil {
			stampErr = s.pessoas.SetPessoaPhoto(ctx, params.ID, publicURL, now)
		}
	case UploadEvento:
		if s.eventos != nil {
			stampErr = s.eventos.SetEventoImage(ctx, params.ID, publicURL, now)
		}
	}
	if stampErr != nil {
		logger.WarnContext(ctx, "failed to stamp uploaded url", "error", stampErr, "error_kind", ErrorKind(mapRepoError(stampErr)))
	}
	return
}
