package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appConfig "github.com/kendall-kelly/garment-crm/config"
)

// ObjectStorage is the blob store documents are kept in
type ObjectStorage interface {
	// Upload stores body under key and returns the stored path
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)

	// CreateSignedURL issues a time-limited download link for path
	CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)

	// Remove deletes the objects at paths
	Remove(ctx context.Context, bucket string, paths []string) error
}

// S3Storage implements ObjectStorage on AWS S3
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// InitS3Storage initializes the S3 storage with AWS credentials
func InitS3Storage(ctx context.Context, cfg *appConfig.Config) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// Upload puts the object into the bucket
func (s *S3Storage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Printf("[S3] uploaded %s", key)
	return key, nil
}

// CreateSignedURL presigns a GET for path
func (s *S3Storage) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty document path")
	}

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// Remove deletes the objects in one batch request
func (s *S3Storage) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete files from S3: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %s from S3: %s", aws.ToString(first.Key), aws.ToString(first.Message))
	}

	log.Printf("[S3] removed %d object(s)", len(paths))
	return nil
}
