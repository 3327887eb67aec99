package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage uploads through the Cloudinary upload API.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg config.StorageConfig) (*CloudinaryStorage, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

// Put uploads body; the public id is key without its extension.
func (s *CloudinaryStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	publicID := strings.TrimSuffix(key, path.Ext(key))
	if s.folder != "" {
		publicID = path.Join(s.folder, publicID)
	}
	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("storage: cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", errors.New("storage: cloudinary upload: " + res.Error.Message)
	}
	return res.SecureURL, nil
}
