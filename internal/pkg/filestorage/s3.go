package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/campushub/backend/internal/pkg/logger"
)

// S3Config holds the settings for the object storage backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible hosts (MinIO etc.)
	AccessKey string
	SecretKey string
	BaseURL   string // public base URL files are served from
	Prefix    string // key prefix inside the bucket, e.g. "uploads"
}

// S3Storage stores uploaded files in an S3-compatible bucket.
type S3Storage struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Storage builds an S3-backed storage. The endpoint override is applied
// on the client so S3-compatible hosts work with path-style addressing.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("S3 storage initialized")
	return &S3Storage{client: client, cfg: cfg}, nil
}

// SaveFile uploads the file under a unique key and returns its public URL.
func (s *S3Storage) SaveFile(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	key := path.Join(strings.Trim(s.cfg.Prefix, "/"), subPath, uuid.New().String()+ext)
	key = strings.TrimLeft(key, "/")

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileHeader.Size),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to upload file to bucket")
		return "", fmt.Errorf("upload to bucket: %w", err)
	}

	fileURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/" + key
	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File uploaded")
	return fileURL, nil
}

// DeleteFile removes the object the URL points at. Unknown URLs are ignored.
func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	key := s.keyFromURL(fileURL)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// keyFromURL maps a public URL back to its object key. Only URLs under the
// configured base URL are recognized.
func (s *S3Storage) keyFromURL(fileURL string) string {
	if fileURL == "" {
		return ""
	}
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base != "" && strings.HasPrefix(fileURL, base+"/") {
		return strings.TrimPrefix(fileURL, base+"/")
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}
	return strings.TrimLeft(u.Path, "/")
}
