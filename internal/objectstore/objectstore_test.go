package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndServe(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:3001/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), Object{
		Bucket: "fotos-pessoas",
		Name:   "pessoa_7_1700000000000.jpg",
		Body:   strings.NewReader("jpeg-bytes"),
		Size:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001/files/fotos-pessoas/pessoa_7_1700000000000.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "fotos-pessoas", "pessoa_7_1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/fotos-pessoas/pessoa_7_1700000000000.jpg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
}

func TestLocalStore_HidesDirectories(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:3001")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), Object{Bucket: "fotos-pessoas", Name: "pessoa_1_1.jpg", Body: strings.NewReader("x"), Size: 1})
	require.NoError(t, err)

	for _, target := range []string{"/files/", "/files/fotos-pessoas/", "/files/fotos-pessoas"} {
		rec := httptest.NewRecorder()
		store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "pessoa_1_1.jpg", target)
	}
}

func TestLocalStore_PutOverwrites(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Put(ctx, Object{Bucket: "b", Name: "f.txt", Body: strings.NewReader("one"), Size: -1})
	require.NoError(t, err)
	_, err = store.Put(ctx, Object{Bucket: "b", Name: "f.txt", Body: strings.NewReader("two"), Size: -1})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.root, "b", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestLocalStore_RejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, obj := range []Object{
		{Bucket: "..", Name: "x", Body: strings.NewReader("")},
		{Bucket: "b", Name: "../x", Body: strings.NewReader("")},
		{Bucket: "b", Name: "", Body: strings.NewReader("")},
	} {
		_, err := store.Put(context.Background(), obj)
		assert.ErrorIs(t, err, ErrInvalidObjectName)
	}
}

func TestSupabaseStore_Put(t *testing.T) {
	var (
		gotPath, gotKey, gotAuth, gotUpsert, gotType, gotBody string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"imagens-eventos/evento_3_1.png"}`))
	}))
	defer server.Close()

	store, err := NewSupabaseStore(SupabaseConfig{URL: server.URL + "/", APIKey: "service-role"})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), Object{
		Bucket:      "imagens-eventos",
		Name:        "evento_3_1.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
		Size:        3,
	})
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/imagens-eventos/evento_3_1.png", gotPath)
	assert.Equal(t, "service-role", gotKey)
	assert.Equal(t, "Bearer service-role", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "png", gotBody)
	assert.Equal(t, server.URL+"/storage/v1/object/public/imagens-eventos/evento_3_1.png", url)
}

func TestSupabaseStore_PutFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Bucket not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewSupabaseStore(SupabaseConfig{URL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), Object{Bucket: "missing", Name: "a.jpg", Body: strings.NewReader("x"), Size: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "Bucket not found")
}

func TestNewSupabaseStore_RequiresConfig(t *testing.T) {
	_, err := NewSupabaseStore(SupabaseConfig{APIKey: "k"})
	assert.Error(t, err)
	_, err = NewSupabaseStore(SupabaseConfig{URL: "http://x"})
	assert.Error(t, err)
}
