package config

import (
	"os"
	"path/filepath"
	"testing"
)

var allKeys = []string{
	"CADASTRO_HTTP_PORT",
	"PORT",
	"CADASTRO_SQLITE_DSN",
	"CADASTRO_STORAGE_BACKEND",
	"CADASTRO_STORAGE_DIR",
	"CADASTRO_PUBLIC_BASE_URL",
	"SUPABASE_URL",
	"SUPABASE_SERVICE_ROLE_KEY",
	"CADASTRO_CORS_ORIGINS",
	"CADASTRO_MAX_UPLOAD_BYTES",
	"CADASTRO_BCRYPT_COST",
	"CADASTRO_LOGIN_RATE_PER_SECOND",
	"CADASTRO_LOGIN_BURST",
	"CADASTRO_TRUSTED_PROXIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 3001 {
			t.Fatalf("expected default HTTP port 3001, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:cadastro.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.StorageBackend != StorageLocal || cfg.StorageDir != "./uploads" {
			t.Fatalf("unexpected storage defaults: %q %q", cfg.StorageBackend, cfg.StorageDir)
		}
		if cfg.PublicBaseURL != "http://localhost:3001" {
			t.Fatalf("unexpected public base url: %q", cfg.PublicBaseURL)
		}
		if cfg.MaxUploadBytes != 10<<20 || cfg.BcryptCost != 10 {
			t.Fatalf("unexpected limits: %d %d", cfg.MaxUploadBytes, cfg.BcryptCost)
		}
		if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
			t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
		}
		if len(cfg.TrustedProxies) != 0 {
			t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
		}
		if cfg.Addr() != ":3001" {
			t.Fatalf("unexpected addr %q", cfg.Addr())
		}
	})

	t.Run("falls back to PORT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "8081")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 8081 || cfg.PublicBaseURL != "http://localhost:8081" {
			t.Fatalf("expected PORT to be used, got %d %q", cfg.HTTPPort, cfg.PublicBaseURL)
		}
	})

	t.Run("errors when supabase credentials are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CADASTRO_STORAGE_BACKEND", "supabase")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "variáveis de ambiente obrigatórias não definidas: SUPABASE_URL, SUPABASE_SERVICE_ROLE_KEY"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses every field", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CADASTRO_HTTP_PORT", "9090")
		t.Setenv("CADASTRO_SQLITE_DSN", "file:/tmp/cadastro.db")
		t.Setenv("CADASTRO_STORAGE_BACKEND", "SUPABASE")
		t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
		t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
		t.Setenv("CADASTRO_PUBLIC_BASE_URL", "https://api.igreja.org/")
		t.Setenv("CADASTRO_CORS_ORIGINS", "https://app.igreja.org, http://localhost:5173")
		t.Setenv("CADASTRO_MAX_UPLOAD_BYTES", "2048")
		t.Setenv("CADASTRO_BCRYPT_COST", "12")
		t.Setenv("CADASTRO_LOGIN_RATE_PER_SECOND", "0.5")
		t.Setenv("CADASTRO_LOGIN_BURST", "3")
		t.Setenv("CADASTRO_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file:/tmp/cadastro.db" {
			t.Fatalf("unexpected port/dsn: %d %q", cfg.HTTPPort, cfg.SQLiteDSN)
		}
		if cfg.StorageBackend != StorageSupabase || cfg.SupabaseURL != "https://abc.supabase.co" || cfg.SupabaseKey != "service-key" {
			t.Fatalf("unexpected supabase config: %+v", cfg)
		}
		if cfg.PublicBaseURL != "https://api.igreja.org" {
			t.Fatalf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
		}
		if cfg.MaxUploadBytes != 2048 || cfg.BcryptCost != 12 || cfg.LoginRate != 0.5 || cfg.LoginBurst != 3 {
			t.Fatalf("unexpected numeric fields: %+v", cfg)
		}
		if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0].String() != "10.0.0.0/8" || cfg.TrustedProxies[1].String() != "127.0.0.1/32" {
			t.Fatalf("unexpected trusted proxies: %v", cfg.TrustedProxies)
		}
	})

	t.Run("reports invalid values together", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CADASTRO_HTTP_PORT", "abc")
		t.Setenv("CADASTRO_STORAGE_BACKEND", "s3")
		t.Setenv("CADASTRO_BCRYPT_COST", "2")
		t.Setenv("CADASTRO_TRUSTED_PROXIES", "10.0.0.0/40")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "valores inválidos nas variáveis de ambiente: CADASTRO_HTTP_PORT, CADASTRO_STORAGE_BACKEND, CADASTRO_BCRYPT_COST, CADASTRO_TRUSTED_PROXIES"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CADASTRO_HTTP_PORT=4000\nCADASTRO_SQLITE_DSN=file:env.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("CADASTRO_SQLITE_DSN", "file:already-set.db")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CADASTRO_HTTP_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 4000 {
		t.Fatalf("expected port from .env, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:already-set.db" {
		t.Fatalf("expected existing variable to win, got %q", cfg.SQLiteDSN)
	}
}
