package migration

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestFileScanner_ScanMigrations(t *testing.T) {
	tests := []struct {
		name          string
		files         fstest.MapFS
		expectedOrder []string
		expectedErr   error
	}{
		{
			name: "orders files numerically and ignores other files",
			files: fstest.MapFS{
				"migrations/010_late.sql":          {Data: []byte("CREATE TABLE c (id INTEGER);")},
				"migrations/002_second.sql":        {Data: []byte("CREATE TABLE b (id INTEGER);")},
				"migrations/001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"migrations/README.md":             {Data: []byte("# notes")},
			},
			expectedOrder: []string{"001", "002", "010"},
		},
		{
			name: "rejects duplicate versions",
			files: fstest.MapFS{
				"migrations/001_one.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"migrations/001_two.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
			},
			expectedErr: ErrDuplicateVersion,
		},
		{
			name: "rejects bad file names",
			files: fstest.MapFS{
				"migrations/initial.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
			},
			expectedErr: ErrInvalidMigrationFile,
		},
		{
			name: "rejects empty files",
			files: fstest.MapFS{
				"migrations/001_empty.sql": {Data: []byte("  \n")},
			},
			expectedErr: ErrInvalidMigrationFile,
		},
		{
			name: "rejects unbalanced parentheses",
			files: fstest.MapFS{
				"migrations/001_broken.sql": {Data: []byte("CREATE TABLE a (id INTEGER;")},
			},
			expectedErr: ErrInvalidMigrationFile,
		},
	}

	scanner := NewFileScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrations, err := scanner.ScanMigrations(tt.files, "migrations")
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScanMigrations returned error: %v", err)
			}
			if len(migrations) != len(tt.expectedOrder) {
				t.Fatalf("expected %d migrations, got %d", len(tt.expectedOrder), len(migrations))
			}
			for i, version := range tt.expectedOrder {
				if migrations[i].Version != version {
					t.Fatalf("position %d: expected version %s, got %s", i, version, migrations[i].Version)
				}
				if migrations[i].Checksum == "" {
					t.Fatalf("migration %s has no checksum", version)
				}
			}
		})
	}
}

func TestFileScanner_Description(t *testing.T) {
	files := fstest.MapFS{
		"m/001_initial_schema.sql": {Data: []byte("-- Description: Cadastro inicial\nCREATE TABLE a (id INTEGER);")},
		"m/002_add_index.sql":      {Data: []byte("CREATE INDEX idx_a ON a(id);")},
	}

	migrations, err := NewFileScanner().ScanMigrations(files, "m")
	if err != nil {
		t.Fatalf("ScanMigrations returned error: %v", err)
	}
	if migrations[0].Description != "Cadastro inicial" {
		t.Fatalf("unexpected description %q", migrations[0].Description)
	}
	if migrations[1].Description != "add index" {
		t.Fatalf("unexpected fallback description %q", migrations[1].Description)
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- leading comment
CREATE TABLE a (id INTEGER);
-- only a comment;
CREATE INDEX idx_a ON a(id); `

	statements := splitStatements(sql)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(statements), statements)
	}
	if !strings.HasPrefix(statements[1], "CREATE INDEX") {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}
