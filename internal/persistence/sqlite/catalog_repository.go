package sqlite

import (
	"context"
	"fmt"

	"github.com/example/church-registry/internal/persistence"
)

// CatalogRepository implements persistence.CatalogRepository for every
// name-only lookup table. Table and column names come from the fixed
// persistence.CatalogKind values, never from request input.
type CatalogRepository struct {
	helper *QueryHelper
}

// NewCatalogRepository creates a new SQLite catalog repository
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{helper: NewQueryHelper(pool)}
}

func catalogSelect(kind persistence.CatalogKind) string {
	return fmt.Sprintf("SELECT %s AS id, %s AS name, created_at, updated_at FROM %s",
		kind.IDColumn, kind.NameColumn, kind.Table)
}

// CreateCatalogItem inserts a new catalog row and returns it with its id.
func (r *CatalogRepository) CreateCatalogItem(ctx context.Context, kind persistence.CatalogKind, item persistence.CatalogItem) (persistence.CatalogItem, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s, created_at, updated_at) VALUES (?, ?, ?)", kind.Table, kind.NameColumn)
	id, err := r.helper.Insert(ctx, query, item.Name, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return persistence.CatalogItem{}, err
	}
	return r.GetCatalogItem(ctx, kind, id)
}

// UpdateCatalogItem renames an existing catalog row.
func (r *CatalogRepository) UpdateCatalogItem(ctx context.Context, kind persistence.CatalogKind, item persistence.CatalogItem) (persistence.CatalogItem, error) {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, updated_at = ? WHERE %s = ?", kind.Table, kind.NameColumn, kind.IDColumn)
	if err := r.helper.ExecAffectingOne(ctx, query, item.Name, item.UpdatedAt, item.ID); err != nil {
		return persistence.CatalogItem{}, err
	}
	return r.GetCatalogItem(ctx, kind, item.ID)
}

// GetCatalogItem retrieves a catalog row by id.
func (r *CatalogRepository) GetCatalogItem(ctx context.Context, kind persistence.CatalogKind, id int64) (persistence.CatalogItem, error) {
	var item persistence.CatalogItem
	query := catalogSelect(kind) + fmt.Sprintf(" WHERE %s = ?", kind.IDColumn)
	if err := r.helper.Get(ctx, &item, query, id); err != nil {
		return persistence.CatalogItem{}, err
	}
	return item, nil
}

// ListCatalogItems returns every row ordered by name.
func (r *CatalogRepository) ListCatalogItems(ctx context.Context, kind persistence.CatalogKind) ([]persistence.CatalogItem, error) {
	items := []persistence.CatalogItem{}
	if err := r.helper.Select(ctx, &items, catalogSelect(kind)+" ORDER BY name"); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteCatalogItem removes a catalog row. References to it are set to NULL
// by the schema.
func (r *CatalogRepository) DeleteCatalogItem(ctx context.Context, kind persistence.CatalogKind, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", kind.Table, kind.IDColumn)
	return r.helper.ExecAffectingOne(ctx, query, id)
}
