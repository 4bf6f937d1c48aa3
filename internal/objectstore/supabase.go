package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SupabaseConfig configures the Supabase Storage client.
type SupabaseConfig struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

// SupabaseStore uploads objects through the Supabase Storage REST API using
// the service-role key, so bucket policies do not apply.
type SupabaseStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabaseStore creates a new Supabase Storage client.
func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("objectstore: supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("objectstore: supabase API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &SupabaseStore{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

// Put uploads obj with upsert semantics and returns its public URL.
func (s *SupabaseStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := validate(obj); err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(obj.Bucket), url.PathEscape(obj.Name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, obj.Body)
	if err != nil {
		return "", fmt.Errorf("objectstore: create request: %w", err)
	}
	if obj.Size >= 0 {
		req.ContentLength = obj.Size
	}

	s.setHeaders(req)
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("objectstore: upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("objectstore: upload %s/%s failed with status %d: %s",
			obj.Bucket, obj.Name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return s.PublicURL(obj.Bucket, obj.Name), nil
}

// PublicURL returns the public URL for an object in a public bucket.
func (s *SupabaseStore) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, url.PathEscape(bucket), url.PathEscape(name))
}

func (s *SupabaseStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}
