package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
)

// S3API is the part of *s3.Client used here.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage writes to an S3 bucket using the default AWS credential chain.
type S3Storage struct {
	Client  S3API
	Bucket  string
	BaseURL string
}

func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, ErrNotConfigured
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}
	base := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, awsCfg.Region)
	}
	return &S3Storage{Client: s3.NewFromConfig(awsCfg), Bucket: cfg.S3Bucket, BaseURL: base}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", key, err)
	}
	return s.BaseURL + "/" + escapePath(key), nil
}
