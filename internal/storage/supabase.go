package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
)

// SupabaseStorage writes to a Supabase Storage bucket over its REST API.
type SupabaseStorage struct {
	BaseURL string
	Key     string
	Bucket  string
	Client  *http.Client
}

func NewSupabase(cfg config.StorageConfig) (*SupabaseStorage, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, ErrNotConfigured
	}
	bucket := cfg.SupabaseBucket
	if bucket == "" {
		bucket = "images"
	}
	return &SupabaseStorage{
		BaseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		Key:     cfg.SupabaseServiceKey,
		Bucket:  bucket,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *SupabaseStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, s.Bucket, escapePath(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("storage: supabase request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: supabase upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage: supabase upload status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, s.Bucket, escapePath(key)), nil
}

func escapePath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
