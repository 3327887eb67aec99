// Package storage uploads normalised images to the configured object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/google/uuid"
)

// ErrNotConfigured is returned when no backend has credentials.
var ErrNotConfigured = errors.New("storage: no backend configured")

// Storage puts an object under key and returns its public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ImageTypes are the folders uploads may target.
var ImageTypes = []string{"trips", "talent", "ships", "resorts", "events", "itinerary", "general"}

// ValidImageType reports whether t is one of ImageTypes.
func ValidImageType(t string) bool {
	for _, v := range ImageTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ObjectName builds "<imageType>/<uuid>[-name].<ext>".
func ObjectName(imageType, name, ext string) string {
	base := uuid.NewString()
	if n := sanitize(name); n != "" {
		base += "-" + n
	}
	return path.Join(imageType, base+"."+strings.TrimPrefix(ext, "."))
}

func sanitize(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 60 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// New picks the backend named by cfg.Provider, or the first one with
// credentials when Provider is empty.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case cfg.CloudinaryCloudName != "":
			provider = "cloudinary"
		case cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "":
			provider = "supabase"
		case cfg.S3Bucket != "":
			provider = "s3"
		default:
			return nil, ErrNotConfigured
		}
	}
	var (
		s   Storage
		err error
	)
	switch provider {
	case "cloudinary":
		s, err = NewCloudinary(cfg)
	case "supabase":
		s, err = NewSupabase(cfg)
	case "s3":
		s, err = NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", provider)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("storage: using %s backend", provider)
	return s, nil
}
