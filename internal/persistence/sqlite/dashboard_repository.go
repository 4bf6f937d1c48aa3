package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

// DashboardRepository implements persistence.DashboardRepository using SQLite
type DashboardRepository struct {
	helper *QueryHelper
}

// NewDashboardRepository creates a new SQLite dashboard repository
func NewDashboardRepository(pool *ConnectionPool) *DashboardRepository {
	return &DashboardRepository{helper: NewQueryHelper(pool)}
}

func (r *DashboardRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.helper.Get(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// CountActivePessoas counts active people.
func (r *DashboardRepository) CountActivePessoas(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM pessoa WHERE ativo = 1")
}

// CountActiveEventosBetween counts active events dated within [from, to].
func (r *DashboardRepository) CountActiveEventosBetween(ctx context.Context, from, to string) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM eventos WHERE ativo = 1 AND dtevento >= ? AND dtevento <= ?", from, to)
}

// CountBirthdaysInMonth counts active people born in month of any year.
func (r *DashboardRepository) CountBirthdaysInMonth(ctx context.Context, month time.Month) (int, error) {
	return r.count(ctx,
		"SELECT COUNT(*) FROM pessoa WHERE ativo = 1 AND dtnascimento IS NOT NULL AND substr(dtnascimento, 6, 2) = ?",
		fmt.Sprintf("%02d", int(month)))
}

// CountActiveConselho counts active council entries.
func (r *DashboardRepository) CountActiveConselho(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM conselho WHERE ativo = 1")
}

// ListSociedadeMemberCounts returns each active society with its number of
// active memberships, largest first.
func (r *DashboardRepository) ListSociedadeMemberCounts(ctx context.Context) ([]persistence.SociedadeMemberCount, error) {
	counts := []persistence.SociedadeMemberCount{}
	err := r.helper.Select(ctx, &counts, `
		SELECT s.cdsociedade, s.nmsociedade, s.sigla, COUNT(ps.cdpessoasociedade) AS membros
		FROM sociedades s
		LEFT JOIN pessoassociedade ps ON ps.cdsociedade = s.cdsociedade AND ps.ativo = 1
		WHERE s.ativo = 1
		GROUP BY s.cdsociedade, s.nmsociedade, s.sigla
		ORDER BY membros DESC, s.nmsociedade`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}
