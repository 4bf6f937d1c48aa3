package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/church-registry/internal/patch"
	"github.com/example/church-registry/internal/persistence"
)

// CatalogService manages the name-only lookup tables.
type CatalogService struct {
	repo   persistence.CatalogRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(repo persistence.CatalogRepository, now func() time.Time) *CatalogService {
	return NewCatalogServiceWithLogger(repo, now, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(repo persistence.CatalogRepository, now func() time.Time, logger *slog.Logger) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{repo: repo, now: now, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, kind persistence.CatalogKind, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, append([]any{"catalog", kind.Table}, attrs...)...)
}

func catalogNameError(kind persistence.CatalogKind) *ValidationError {
	return requiredError(kind.NameColumn+" é obrigatório", kind.NameColumn)
}

// List returns every item of the catalog ordered by name.
func (s *CatalogService) List(ctx context.Context, kind persistence.CatalogKind) (items []persistence.CatalogItem, err error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("catalog repository not configured")
	}

	logger := s.loggerWith(ctx, "List", kind)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list catalog", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(items)).DebugContext(ctx, "catalog listed")
	}()

	items, err = s.repo.ListCatalogItems(ctx, kind)
	err = mapRepoError(err)
	return
}

// Create stores a new catalog item named name.
func (s *CatalogService) Create(ctx context.Context, kind persistence.CatalogKind, name string) (item persistence.CatalogItem, err error) {
	if s == nil || s.repo == nil {
		err = fmt.Errorf("catalog repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create", kind)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create catalog item", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("id", item.ID).InfoContext(ctx, "catalog item created")
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		err = catalogNameError(kind)
		return
	}

	now := persistence.NewTimestamp(s.now())
	item, err = s.repo.CreateCatalogItem(ctx, kind, persistence.CatalogItem{Name: name, CreatedAt: now, UpdatedAt: now})
	err = mapRepoError(err)
	return
}

// Update renames an item when a name is sent; an empty body only stamps updated_at.
func (s *CatalogService) Update(ctx context.Context, kind persistence.CatalogKind, id int64, name patch.Field[string]) (item persistence.CatalogItem, err error) {
	if s == nil || s.repo == nil {
		err = fmt.Errorf("catalog repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update", kind, "id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update catalog item", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "catalog item updated")
	}()

	var existing persistence.CatalogItem
	existing, err = s.repo.GetCatalogItem(ctx, kind, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if name.Set {
		trimmed := strings.TrimSpace(name.Value)
		if name.Null || trimmed == "" {
			err = catalogNameError(kind)
			return
		}
		existing.Name = trimmed
	}
	existing.UpdatedAt = persistence.NewTimestamp(s.now())

	item, err = s.repo.UpdateCatalogItem(ctx, kind, existing)
	err = mapRepoError(err)
	return
}

// Delete removes an item; rows referencing it lose the reference.
func (s *CatalogService) Delete(ctx context.Context, kind persistence.CatalogKind, id int64) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("catalog repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", kind, "id", id)
	if err := s.repo.DeleteCatalogItem(ctx, kind, id); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete catalog item", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "catalog item deleted")
	return nil
}
