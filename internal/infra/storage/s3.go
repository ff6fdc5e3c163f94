// Package storage implements binary object storage backed by S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"equipment-rental/internal/pkg/config"
	"equipment-rental/internal/pkg/errs"
)

var ErrUnsupportedImageType = errs.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3Client defines the S3 operations used by the image store.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3ImageStore struct {
	client    S3Client
	bucket    string
	urlPrefix string
}

func NewS3ImageStore(ctx context.Context, cfg config.S3Config) (*S3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errs.Wrap(err, "failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
	}, nil
}

// NewS3ImageStoreWithClient wires a pre-built client, used by tests.
func NewS3ImageStoreWithClient(client S3Client, bucket, urlPrefix string) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

// Upload stores an image under a random key and returns its public URL.
func (s *S3ImageStore) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", errs.Mark(errs.New(fmt.Sprintf("content type %q not allowed", contentType)), ErrUnsupportedImageType)
	}

	key := path.Join("equipment", uuid.New().String()+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to upload image")
	}

	return s.urlPrefix + "/" + key, nil
}

// Delete removes a previously uploaded image by its public URL.
// Unknown URLs are ignored so callers can pass stale references safely.
func (s *S3ImageStore) Delete(ctx context.Context, imageURL string) error {
	if !strings.HasPrefix(imageURL, s.urlPrefix+"/") {
		return nil
	}
	key := strings.TrimPrefix(imageURL, s.urlPrefix+"/")

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.Wrap(err, "failed to delete image")
	}

	return nil
}
