package objectstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FilesPrefix is the URL path under which LocalStore objects are served.
const FilesPrefix = "/files/"

// LocalStore keeps objects on disk under root/<bucket>/<name>.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates root if needed. baseURL is the externally visible
// origin of this process, e.g. http://localhost:3001.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("objectstore: storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: create storage directory: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the object through a temporary file so readers never see a
// partial upload.
func (s *LocalStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := validate(obj); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, obj.Bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("objectstore: create bucket: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("objectstore: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, obj.Body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("objectstore: write %s/%s: %w", obj.Bucket, obj.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("objectstore: close %s/%s: %w", obj.Bucket, obj.Name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, obj.Name)); err != nil {
		return "", fmt.Errorf("objectstore: commit %s/%s: %w", obj.Bucket, obj.Name, err)
	}

	return s.baseURL + FilesPrefix + url.PathEscape(obj.Bucket) + "/" + url.PathEscape(obj.Name), nil
}

// Handler serves stored objects; mount it under FilesPrefix. Directories
// answer 404 instead of a listing.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(FilesPrefix, http.FileServer(filesOnly{http.Dir(s.root)}))
}

// filesOnly hides directories from http.FileServer.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
