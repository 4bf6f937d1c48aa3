package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/church-registry/internal/persistence"
	"github.com/example/church-registry/internal/testfixtures"
)

func seedPessoa(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.PessoaOption) persistence.Pessoa {
	t.Helper()
	pessoa, err := h.Pessoas.CreatePessoa(context.Background(), testfixtures.NewPessoaFixture(opts...).Persistence())
	if err != nil {
		t.Fatalf("CreatePessoa failed: %v", err)
	}
	return pessoa
}

func seedSociedade(t *testing.T, h *testfixtures.SQLiteHarness, opts ...testfixtures.SociedadeOption) persistence.Sociedade {
	t.Helper()
	sociedade, err := h.Sociedades.CreateSociedade(context.Background(), testfixtures.NewSociedadeFixture(opts...).Persistence())
	if err != nil {
		t.Fatalf("CreateSociedade failed: %v", err)
	}
	return sociedade
}

func seedLink(t *testing.T, h *testfixtures.SQLiteHarness, pessoaID, sociedadeID int64, joined string, active bool) persistence.PessoaSociedade {
	t.Helper()
	stamp := persistence.NewTimestamp(testfixtures.ReferenceTime())
	link, err := h.PessoaSociedades.CreatePessoaSociedade(context.Background(), persistence.PessoaSociedade{
		PessoaID:    pessoaID,
		SociedadeID: sociedadeID,
		JoinedOn:    joined,
		Active:      active,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	})
	if err != nil {
		t.Fatalf("CreatePessoaSociedade failed: %v", err)
	}
	return link
}

func TestCatalogRepository_CRUD(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	kind := persistence.TipoPessoaCatalog
	stamp := persistence.NewTimestamp(testfixtures.ReferenceTime())

	for _, name := range []string{"Visitante", "Membro"} {
		if _, err := h.Catalog.CreateCatalogItem(ctx, kind, persistence.CatalogItem{Name: name, CreatedAt: stamp, UpdatedAt: stamp}); err != nil {
			t.Fatalf("CreateCatalogItem failed: %v", err)
		}
	}

	items, err := h.Catalog.ListCatalogItems(ctx, kind)
	if err != nil {
		t.Fatalf("ListCatalogItems failed: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Membro" || items[1].Name != "Visitante" {
		t.Fatalf("expected items ordered by name, got %+v", items)
	}

	items[0].Name = "Membro Comungante"
	updated, err := h.Catalog.UpdateCatalogItem(ctx, kind, items[0])
	if err != nil || updated.Name != "Membro Comungante" {
		t.Fatalf("UpdateCatalogItem = %+v, %v", updated, err)
	}

	if err := h.Catalog.DeleteCatalogItem(ctx, kind, 999); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := h.Catalog.DeleteCatalogItem(ctx, kind, items[0].ID); err != nil {
		t.Fatalf("DeleteCatalogItem failed: %v", err)
	}
	if _, err := h.Catalog.GetCatalogItem(ctx, kind, items[0].ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected deleted item to be gone, got %v", err)
	}
}

func TestCatalogRepository_DeleteClearsReferences(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	stamp := persistence.NewTimestamp(testfixtures.ReferenceTime())

	tipo, err := h.Catalog.CreateCatalogItem(ctx, persistence.TipoPessoaCatalog, persistence.CatalogItem{Name: "Membro", CreatedAt: stamp, UpdatedAt: stamp})
	if err != nil {
		t.Fatalf("CreateCatalogItem failed: %v", err)
	}
	pessoa := seedPessoa(t, h, testfixtures.WithPessoaTipo(tipo.ID))

	if err := h.Catalog.DeleteCatalogItem(ctx, persistence.TipoPessoaCatalog, tipo.ID); err != nil {
		t.Fatalf("DeleteCatalogItem failed: %v", err)
	}

	reloaded, err := h.Pessoas.GetPessoa(ctx, pessoa.ID)
	if err != nil {
		t.Fatalf("GetPessoa failed: %v", err)
	}
	if reloaded.TipoPessoaID != nil {
		t.Fatalf("expected cdtipopessoa to be cleared, got %v", *reloaded.TipoPessoaID)
	}
}

func TestPessoaRepository_CreateAndView(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	pessoa := seedPessoa(t, h, testfixtures.WithPessoaName("Ana"), testfixtures.WithPessoaBirthDate("1990-03-10"))
	if pessoa.ID == 0 || !pessoa.Active {
		t.Fatalf("unexpected pessoa %+v", pessoa)
	}
	if !pessoa.CreatedAt.Equal(testfixtures.ReferenceTime()) {
		t.Fatalf("expected created_at to round-trip, got %v", pessoa.CreatedAt.Time)
	}

	older := seedSociedade(t, h, testfixtures.WithSociedadeName("UMP"))
	newer := seedSociedade(t, h, testfixtures.WithSociedadeName("SAF"))
	gone := seedSociedade(t, h)
	seedLink(t, h, pessoa.ID, older.ID, "2019-01-01", true)
	seedLink(t, h, pessoa.ID, newer.ID, "2023-06-01", true)
	seedLink(t, h, pessoa.ID, gone.ID, "2024-01-01", false)

	view, err := h.Pessoas.GetPessoaView(ctx, pessoa.ID)
	if err != nil {
		t.Fatalf("GetPessoaView failed: %v", err)
	}
	if len(view.Links) != 2 {
		t.Fatalf("expected two active links, got %+v", view.Links)
	}
	if view.Links[0].SociedadeName != "SAF" || view.Links[1].SociedadeName != "UMP" {
		t.Fatalf("expected newest entry first, got %s, %s", view.Links[0].SociedadeName, view.Links[1].SociedadeName)
	}

	if _, err := h.Pessoas.GetPessoaView(ctx, 999); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPessoaRepository_ListFilters(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	ana := seedPessoa(t, h, testfixtures.WithPessoaName("Ana Souza"))
	seedPessoa(t, h, testfixtures.WithPessoaName("Bruno Lima"))
	seedPessoa(t, h, testfixtures.WithPessoaName("Carla Souza"), testfixtures.WithPessoaActive(false))
	seedPessoa(t, h, testfixtures.WithPessoaName("JOSÉ ÁVILA"))
	seedPessoa(t, h, testfixtures.WithPessoaName("Érica Souza"))
	ump := seedSociedade(t, h)
	seedLink(t, h, ana.ID, ump.ID, "2020-01-01", true)

	active := true
	tests := []struct {
		name   string
		filter persistence.PessoaFilter
		want   []string
	}{
		{name: "all", filter: persistence.PessoaFilter{}, want: []string{"Ana Souza", "Bruno Lima", "Carla Souza", "JOSÉ ÁVILA", "Érica Souza"}},
		{name: "search is case insensitive", filter: persistence.PessoaFilter{Search: "souza"}, want: []string{"Ana Souza", "Carla Souza", "Érica Souza"}},
		{name: "search folds accented capitals", filter: persistence.PessoaFilter{Search: "josé ávila"}, want: []string{"JOSÉ ÁVILA"}},
		{name: "search folds accented query", filter: persistence.PessoaFilter{Search: "ÉRICA"}, want: []string{"Érica Souza"}},
		{name: "search treats wildcards literally", filter: persistence.PessoaFilter{Search: "%"}, want: []string{}},
		{name: "active", filter: persistence.PessoaFilter{Active: &active}, want: []string{"Ana Souza", "Bruno Lima", "JOSÉ ÁVILA", "Érica Souza"}},
		{name: "sociedade", filter: persistence.PessoaFilter{SociedadeID: &ump.ID}, want: []string{"Ana Souza"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := h.Pessoas.ListPessoaViews(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListPessoaViews failed: %v", err)
			}
			if len(views) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(views))
			}
			for i, name := range tt.want {
				if views[i].Name != name {
					t.Fatalf("result %d = %q, want %q", i, views[i].Name, name)
				}
			}
		})
	}
}

func TestPessoaRepository_UpdateAndPhoto(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	pessoa := seedPessoa(t, h, testfixtures.WithPessoaPhone("1111"))
	pessoa.Phone = nil
	pessoa.Active = false
	updated, err := h.Pessoas.UpdatePessoa(ctx, pessoa)
	if err != nil {
		t.Fatalf("UpdatePessoa failed: %v", err)
	}
	if updated.Phone != nil || updated.Active {
		t.Fatalf("unexpected pessoa %+v", updated)
	}

	if err := h.Pessoas.SetPessoaPhoto(ctx, pessoa.ID, "https://cdn/foto.jpg", testfixtures.ReferenceTime()); err != nil {
		t.Fatalf("SetPessoaPhoto failed: %v", err)
	}
	reloaded, _ := h.Pessoas.GetPessoa(ctx, pessoa.ID)
	if reloaded.Photo == nil || *reloaded.Photo != "https://cdn/foto.jpg" {
		t.Fatalf("expected photo stamped, got %v", reloaded.Photo)
	}

	if err := h.Pessoas.SetPessoaPhoto(ctx, 999, "x", testfixtures.ReferenceTime()); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSociedadeRepository_ListAndMembers(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	saf := seedSociedade(t, h, testfixtures.WithSociedadeName("SAF"))
	seedSociedade(t, h, testfixtures.WithSociedadeName("Antiga"), testfixtures.WithSociedadeActive(false))

	active, err := h.Sociedades.ListSociedades(ctx, persistence.SociedadeFilter{})
	if err != nil || len(active) != 1 {
		t.Fatalf("expected only active societies, got %+v, %v", active, err)
	}
	all, err := h.Sociedades.ListSociedades(ctx, persistence.SociedadeFilter{IncludeInactive: true})
	if err != nil || len(all) != 2 || all[0].Name != "Antiga" {
		t.Fatalf("expected all societies by name, got %+v, %v", all, err)
	}

	zeca := seedPessoa(t, h, testfixtures.WithPessoaName("Zeca"))
	bia := seedPessoa(t, h, testfixtures.WithPessoaName("Bia"))
	seedLink(t, h, zeca.ID, saf.ID, "2020-01-01", true)
	seedLink(t, h, bia.ID, saf.ID, "2021-01-01", true)

	members, err := h.Sociedades.ListSociedadeMembers(ctx, saf.ID)
	if err != nil {
		t.Fatalf("ListSociedadeMembers failed: %v", err)
	}
	if len(members) != 2 || members[0].PessoaName != "Bia" || members[1].PessoaName != "Zeca" {
		t.Fatalf("expected members by name, got %+v", members)
	}

	deactivated, err := h.Sociedades.SetSociedadeActive(ctx, saf.ID, false, testfixtures.ReferenceTime().Add(time.Hour))
	if err != nil {
		t.Fatalf("SetSociedadeActive failed: %v", err)
	}
	if deactivated.Active || deactivated.Name != "SAF" {
		t.Fatalf("unexpected sociedade %+v", deactivated)
	}
}

func TestPessoaSociedadeRepository_ForeignKeys(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	stamp := persistence.NewTimestamp(testfixtures.ReferenceTime())
	_, err := h.PessoaSociedades.CreatePessoaSociedade(ctx, persistence.PessoaSociedade{
		PessoaID: 404, SociedadeID: 404, JoinedOn: "2024-01-01", Active: true, CreatedAt: stamp, UpdatedAt: stamp,
	})
	if !errors.Is(err, persistence.ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}
}

func TestEventoRepository_ListOrderAndFilters(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	ump := seedSociedade(t, h, testfixtures.WithSociedadeName("UMP"))

	for _, f := range []testfixtures.EventoFixture{
		testfixtures.NewEventoFixture(testfixtures.WithEventoName("Culto manhã"), testfixtures.WithEventoSchedule("2024-06-02", "10:00")),
		testfixtures.NewEventoFixture(testfixtures.WithEventoName("Culto noite"), testfixtures.WithEventoSchedule("2024-06-02", "19:00"), testfixtures.WithEventoSociedade(ump.ID)),
		testfixtures.NewEventoFixture(testfixtures.WithEventoName("Retiro"), testfixtures.WithEventoSchedule("2024-07-10", "08:00")),
	} {
		if _, err := h.Eventos.CreateEvento(ctx, f.Persistence()); err != nil {
			t.Fatalf("CreateEvento failed: %v", err)
		}
	}

	views, err := h.Eventos.ListEventoViews(ctx, persistence.EventoFilter{})
	if err != nil {
		t.Fatalf("ListEventoViews failed: %v", err)
	}
	want := []string{"Retiro", "Culto noite", "Culto manhã"}
	for i, name := range want {
		if views[i].Name != name {
			t.Fatalf("result %d = %q, want %q", i, views[i].Name, name)
		}
	}
	if views[1].SociedadeName == nil || *views[1].SociedadeName != "UMP" {
		t.Fatalf("expected society name joined, got %v", views[1].SociedadeName)
	}

	june, err := h.Eventos.ListEventoViews(ctx, persistence.EventoFilter{From: "2024-06-01", To: "2024-06-30"})
	if err != nil || len(june) != 2 {
		t.Fatalf("expected two June events, got %d, %v", len(june), err)
	}
	byUMP, err := h.Eventos.ListEventoViews(ctx, persistence.EventoFilter{SociedadeID: &ump.ID})
	if err != nil || len(byUMP) != 1 {
		t.Fatalf("expected one UMP event, got %d, %v", len(byUMP), err)
	}

	deactivated, err := h.Eventos.SetEventoActive(ctx, views[0].ID, false, testfixtures.ReferenceTime())
	if err != nil || deactivated.Active {
		t.Fatalf("SetEventoActive = %+v, %v", deactivated, err)
	}
}

func TestConselhoRepository_SingleActivePerPessoa(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	pessoa := seedPessoa(t, h, testfixtures.WithPessoaName("Presbítero João"))
	stamp := persistence.NewTimestamp(testfixtures.ReferenceTime())

	entry := persistence.Conselho{PessoaID: pessoa.ID, StartDate: "2024-01-01", Active: true, CreatedAt: stamp, UpdatedAt: stamp}
	created, err := h.Conselho.CreateConselho(ctx, entry)
	if err != nil {
		t.Fatalf("CreateConselho failed: %v", err)
	}

	if _, err := h.Conselho.CreateConselho(ctx, entry); !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict for a second active entry, got %v", err)
	}

	past := entry
	past.StartDate, past.Active = "2018-01-01", false
	if _, err := h.Conselho.CreateConselho(ctx, past); err != nil {
		t.Fatalf("inactive history entry should be accepted: %v", err)
	}

	active, err := h.Conselho.FindActiveConselhoByPessoa(ctx, pessoa.ID)
	if err != nil || active.ID != created.ID {
		t.Fatalf("FindActiveConselhoByPessoa = %+v, %v", active, err)
	}

	views, err := h.Conselho.ListConselhoViews(ctx)
	if err != nil || len(views) != 2 {
		t.Fatalf("ListConselhoViews = %d, %v", len(views), err)
	}
	if views[0].StartDate != "2024-01-01" || views[0].PessoaName != "Presbítero João" {
		t.Fatalf("expected newest entry first with person name, got %+v", views[0])
	}

	history, err := h.Conselho.CreateConselho(ctx, past)
	if err != nil {
		t.Fatalf("second history entry: %v", err)
	}
	history.Active = true
	if _, err := h.Conselho.UpdateConselho(ctx, history); !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict when reactivating history, got %v", err)
	}
	notes := "mandato renovado"
	created.Notes = &notes
	if updated, err := h.Conselho.UpdateConselho(ctx, created); err != nil || updated.Notes == nil || *updated.Notes != "mandato renovado" {
		t.Fatalf("updating the active entry itself = %+v, %v", updated, err)
	}
	missing := created
	missing.ID = 9999
	if _, err := h.Conselho.UpdateConselho(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown entry, got %v", err)
	}

	if err := h.Conselho.DeleteConselho(ctx, created.ID); err != nil {
		t.Fatalf("DeleteConselho failed: %v", err)
	}
	if _, err := h.Conselho.FindActiveConselhoByPessoa(ctx, pessoa.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected no active entry after delete, got %v", err)
	}
}

func TestUsuarioRepository(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewUsuarioFixture(testfixtures.WithUsuarioLogin("secretaria"))
	created, err := h.Usuarios.CreateUsuario(ctx, fixture.Persistence("$2a$04$hash"))
	if err != nil {
		t.Fatalf("CreateUsuario failed: %v", err)
	}

	if _, err := h.Usuarios.CreateUsuario(ctx, fixture.Persistence("$2a$04$other")); !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate login, got %v", err)
	}

	found, err := h.Usuarios.GetUsuarioByLogin(ctx, " secretaria ")
	if err != nil || found.ID != created.ID {
		t.Fatalf("GetUsuarioByLogin = %+v, %v", found, err)
	}
	if _, err := h.Usuarios.GetUsuarioByLogin(ctx, "Secretaria"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected logins to be case sensitive, got %v", err)
	}

	at := testfixtures.ReferenceTime().Add(48 * time.Hour)
	if err := h.Usuarios.TouchUsuarioLastAccess(ctx, created.ID, at); err != nil {
		t.Fatalf("TouchUsuarioLastAccess failed: %v", err)
	}
	reloaded, _ := h.Usuarios.GetUsuario(ctx, created.ID)
	if reloaded.LastAccess == nil || !reloaded.LastAccess.Equal(at) {
		t.Fatalf("expected ultimo_acesso %v, got %v", at, reloaded.LastAccess)
	}

	if _, err := h.Usuarios.SetUsuarioActive(ctx, created.ID, false, at); err != nil {
		t.Fatalf("SetUsuarioActive failed: %v", err)
	}
	activeOnly, err := h.Usuarios.ListUsuarios(ctx, persistence.UsuarioFilter{ActiveOnly: true})
	if err != nil || len(activeOnly) != 0 {
		t.Fatalf("expected no active accounts, got %d, %v", len(activeOnly), err)
	}
}

func TestDashboardRepository_Counts(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	ana := seedPessoa(t, h, testfixtures.WithPessoaBirthDate("1985-05-03"))
	seedPessoa(t, h, testfixtures.WithPessoaBirthDate("1990-05-28"))
	seedPessoa(t, h, testfixtures.WithPessoaBirthDate("1970-11-09"))
	seedPessoa(t, h, testfixtures.WithPessoaBirthDate("1999-05-01"), testfixtures.WithPessoaActive(false))
	saf := seedSociedade(t, h, testfixtures.WithSociedadeName("SAF"))
	seedSociedade(t, h, testfixtures.WithSociedadeName("UMP"))
	seedLink(t, h, ana.ID, saf.ID, "2020-01-01", true)

	if _, err := h.Eventos.CreateEvento(ctx, testfixtures.NewEventoFixture(testfixtures.WithEventoSchedule("2024-05-12", "19:00")).Persistence()); err != nil {
		t.Fatalf("CreateEvento failed: %v", err)
	}
	if _, err := h.Eventos.CreateEvento(ctx, testfixtures.NewEventoFixture(testfixtures.WithEventoSchedule("2024-06-12", "19:00")).Persistence()); err != nil {
		t.Fatalf("CreateEvento failed: %v", err)
	}

	if n, err := h.Dashboard.CountActivePessoas(ctx); err != nil || n != 3 {
		t.Fatalf("CountActivePessoas = %d, %v", n, err)
	}
	if n, err := h.Dashboard.CountBirthdaysInMonth(ctx, time.May); err != nil || n != 2 {
		t.Fatalf("CountBirthdaysInMonth = %d, %v", n, err)
	}
	if n, err := h.Dashboard.CountActiveEventosBetween(ctx, "2024-05-01", "2024-05-31"); err != nil || n != 1 {
		t.Fatalf("CountActiveEventosBetween = %d, %v", n, err)
	}
	if n, err := h.Dashboard.CountActiveConselho(ctx); err != nil || n != 0 {
		t.Fatalf("CountActiveConselho = %d, %v", n, err)
	}

	counts, err := h.Dashboard.ListSociedadeMemberCounts(ctx)
	if err != nil {
		t.Fatalf("ListSociedadeMemberCounts failed: %v", err)
	}
	if len(counts) != 2 || counts[0].Name != "SAF" || counts[0].Members != 1 || counts[1].Members != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
