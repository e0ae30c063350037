package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/secondchance-api/internal/config"
)

const s3KeyPrefix = "images/"

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3-compatible bucket.
type S3Store struct {
	client   objectAPI
	bucket   string
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

// NewS3Store builds a client from cfg. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies. A custom
// endpoint (MinIO and similar) switches to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.S3Config, maxBytes int64, logger *slog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg, maxBytes, logger), nil
}

func newS3Store(client objectAPI, cfg config.S3Config, maxBytes int64, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		switch {
		case cfg.Endpoint != "":
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  baseURL,
		maxBytes: maxBytes,
		logger:   logger.With("component", "s3_assets"),
	}
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, filename string, body io.Reader) (string, error) {
	up, err := readImage(filename, body, s.maxBytes)
	if err != nil {
		return "", err
	}

	key := s3KeyPrefix + up.name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(up.data),
		ContentType:   aws.String(up.contentType),
		ContentLength: aws.Int64(int64(len(up.data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.logger.Debug("asset stored", "key", key, "bytes", len(up.data))
	return s.baseURL + "/" + key, nil
}

// Delete implements Store. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, ok := s.keyFor(ref)
	if !ok {
		return fmt.Errorf("asset reference %q does not belong to bucket %s", ref, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) keyFor(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || !strings.HasPrefix(key, s3KeyPrefix) || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

var _ Store = (*S3Store)(nil)
