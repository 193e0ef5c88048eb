// Package storage persists uploaded files in S3 and exposes their public URLs
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Vipigal/ijunior-api-capacitacao/internal/apperrors"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedContentTypes maps the accepted upload MIME types to file extensions
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpeg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// S3Store stores uploaded files in a single public bucket
type S3Store struct {
	client *s3.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewS3Store creates an S3-backed file store with static credentials
func NewS3Store(ctx context.Context, region, accessKey, secretKey, bucket string, logger *zap.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		logger: logger,
	}, nil
}

// storageKey builds a collision-free object key under a folder prefix
func storageKey(folder, contentType string) string {
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UnixMilli(), uuid.New(), allowedContentTypes[contentType])
}

// Upload stores a file under the given folder and returns its public URL.
// Only JPEG, PNG and PDF content is accepted.
func (s *S3Store) Upload(ctx context.Context, folder, contentType string, body io.Reader) (string, error) {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", apperrors.InvalidParam("O arquivo enviado deve ser do tipo jpeg, png ou pdf!")
	}

	key := storageKey(folder, contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to upload file", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes a previously uploaded file, resolved from its public URL
func (s *S3Store) Delete(ctx context.Context, fileURL string) error {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("failed to delete file", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// keyFromURL recovers the object key from a public bucket URL
func (s *S3Store) keyFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse file url: %w", err)
	}

	key := strings.TrimPrefix(path.Clean(parsed.Path), "/")
	if key == "" {
		return "", fmt.Errorf("file url %q carries no object key", fileURL)
	}

	return key, nil
}
