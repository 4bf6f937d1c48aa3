package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/church-registry/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		HTTPPort:       3001,
		SQLiteDSN:      filepath.Join(dir, "cadastro.db"),
		StorageBackend: config.StorageLocal,
		StorageDir:     filepath.Join(dir, "uploads"),
		PublicBaseURL:  "http://localhost:3001",
		CORSOrigins:    []string{"*"},
		MaxUploadBytes: 1 << 20,
		BcryptCost:     4,
		LoginRate:      1,
		LoginBurst:     5,
	}
}

func TestNewApp_ServesRegistry(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"nmlogin":"secretaria","senha":"s3nha"}`)
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/usuario", body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	login := bytes.NewBufferString(`{"nmLogin":"secretaria","senha":"s3nha"}`)
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", login))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"nmLogin":"secretaria"`)

	rec = httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cadastro_http_requests_total")
}

func TestNewApp_ReopensMigratedDatabase(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := newApp(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := newApp(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestNewObjectStore(t *testing.T) {
	cfg := testConfig(t)
	store, files, err := newObjectStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NotNil(t, files, "local storage serves its own files")

	cfg.StorageBackend = config.StorageSupabase
	cfg.SupabaseURL = "https://abc.supabase.co"
	cfg.SupabaseKey = "service-key"
	store, files, err = newObjectStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Nil(t, files)

	cfg.SupabaseKey = ""
	_, _, err = newObjectStore(cfg)
	assert.Error(t, err)
}
