// Package storage provides the S3-backed blob store for avatar uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config holds S3 connection settings. Endpoint is optional and used for
// S3-compatible stores such as MinIO; PublicBaseURL overrides the URL
// returned for uploaded objects.
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store uploads blobs to a single bucket and returns public URLs.
type S3Store struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

// NewS3Store constructs an S3Store with static credentials.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// storageKey derives a collision-free object key, keeping the original
// extension so content type survives round trips through the store.
func storageKey(filename string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("avatars/%d/%02d/%s%s", d.Year(), int(d.Month()), uuid.New(), path.Ext(filename))
}

// Upload puts the blob into the bucket and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := storageKey(filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("storage: put object: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
