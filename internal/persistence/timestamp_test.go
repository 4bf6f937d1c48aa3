package persistence_test

import (
	"testing"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

func TestTimestamp_ScanFormats(t *testing.T) {
	want := time.Date(2024, time.May, 20, 14, 30, 0, 0, time.UTC)

	inputs := []any{
		"2024-05-20T14:30:00Z",
		"2024-05-20T11:30:00-03:00",
		[]byte("2024-05-20 14:30:00"),
		want.In(time.FixedZone("BRT", -3*3600)),
	}
	for _, in := range inputs {
		var ts persistence.Timestamp
		if err := ts.Scan(in); err != nil {
			t.Fatalf("Scan(%v) failed: %v", in, err)
		}
		if !ts.Equal(want) || ts.Location() != time.UTC {
			t.Fatalf("Scan(%v) = %v, want %v in UTC", in, ts.Time, want)
		}
	}

	var ts persistence.Timestamp
	if err := ts.Scan(nil); err != nil || !ts.IsZero() {
		t.Fatalf("expected NULL to scan as zero, got %v, %v", ts.Time, err)
	}
	if err := ts.Scan("ontem"); err == nil {
		t.Fatalf("expected invalid text to fail")
	}
	if err := ts.Scan(42); err == nil {
		t.Fatalf("expected unsupported type to fail")
	}
}

func TestTimestamp_Value(t *testing.T) {
	local := time.Date(2024, time.May, 20, 11, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	value, err := persistence.NewTimestamp(local).Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != "2024-05-20T14:30:00Z" {
		t.Fatalf("expected UTC RFC 3339 text, got %v", value)
	}

	zero, err := persistence.Timestamp{}.Value()
	if err != nil || zero != nil {
		t.Fatalf("expected zero timestamp to be NULL, got %v, %v", zero, err)
	}
}

func TestRoleLabel(t *testing.T) {
	cargo := "Presidente"
	free := "Tesoureira"
	empty := ""

	tests := []struct {
		name string
		view persistence.SociedadeLinkView
		want *string
	}{
		{name: "catalog role wins", view: persistence.SociedadeLinkView{PessoaSociedade: persistence.PessoaSociedade{Role: &free}, RoleTypeName: &cargo}, want: &cargo},
		{name: "falls back to free text", view: persistence.SociedadeLinkView{PessoaSociedade: persistence.PessoaSociedade{Role: &free}, RoleTypeName: &empty}, want: &free},
		{name: "none", view: persistence.SociedadeLinkView{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.view.RoleLabel()
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Fatalf("RoleLabel() = %v, want %v", got, tt.want)
			}
		})
	}

	member := persistence.MembroView{PessoaSociedade: persistence.PessoaSociedade{Role: &free}}
	if got := member.RoleLabel(); got == nil || *got != free {
		t.Fatalf("expected member role label %q, got %v", free, got)
	}
}
