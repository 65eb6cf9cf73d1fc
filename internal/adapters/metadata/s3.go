package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/trebuchet-org/registrar/internal/domain"
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// ObjectAPI is the part of the S3 client the store uses
type ObjectAPI interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
}

// S3Store keeps the deployment record as a single S3 object. PutObject
// replaces the object atomically.
type S3Store struct {
	client      ObjectAPI
	bucket      string
	key         string
	format      format
	locationURI string
	log         *slog.Logger
}

// NewS3Store creates a store for bucket/key using the given client
func NewS3Store(client ObjectAPI, bucket, key string, log *slog.Logger) *S3Store {
	return &S3Store{
		client:      client,
		bucket:      bucket,
		key:         key,
		format:      formatFor(key),
		locationURI: fmt.Sprintf("s3://%s/%s", bucket, key),
		log:         log.With("component", "metadata-s3"),
	}
}

// newS3StoreFromURL parses s3://bucket/key?region=...&endpoint=...
// Credentials come from the standard AWS environment and shared config;
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY take precedence when set.
func newS3StoreFromURL(u *url.URL, log *slog.Logger) (*S3Store, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 metadata location must be s3://bucket/key, got %s", u.String())
	}

	region := u.Query().Get("region")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint := u.Query().Get("endpoint"); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	accessKey, secretKey := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, os.Getenv("AWS_SESSION_TOKEN"))
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3Store(s3.New(sess), bucket, key, log), nil
}

// Location returns the s3:// URI of the record
func (s *S3Store) Location() string {
	return s.locationURI
}

// Exists reports whether the object is present
func (s *S3Store) Exists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", s.locationURI, err)
	}
	return true, nil
}

// Read fetches and validates the record
func (s *S3Store) Read(ctx context.Context) (*models.DeploymentRecord, error) {
	start := time.Now()
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: no deployment metadata at %s", domain.ErrNotFound, s.locationURI)
		}
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	s.log.Debug("fetched deployment metadata",
		slog.String("bucket", s.bucket),
		slog.String("key", s.key),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	record, err := decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", domain.ErrInvalidDeployment, s.locationURI, err)
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDeployment, s.locationURI, err)
	}
	return record, nil
}

// Write uploads the record in a single PutObject
func (s *S3Store) Write(ctx context.Context, record *models.DeploymentRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDeployment, err)
	}
	data, err := encode(record, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode deployment metadata: %w", err)
	}

	contentType := "application/json"
	if s.format == formatYAML {
		contentType = "application/yaml"
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	s.log.Debug("stored deployment metadata",
		slog.String("bucket", s.bucket),
		slog.String("key", s.key))
	return nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "404")
}

var _ usecase.MetadataStore = (*S3Store)(nil)
