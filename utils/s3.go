package utils

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const imageURLExpiry = 1 * time.Hour

// InitS3 builds an S3 client from the default AWS credential chain.
func InitS3(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// ImageBucket stores outfit images and issues short-lived GET URLs for them.
type ImageBucket struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewImageBucket(client *s3.Client, bucket string) *ImageBucket {
	return &ImageBucket{client: client, presign: s3.NewPresignClient(client), bucket: bucket}
}

// Upload uploads a file to S3 and returns the object key.
func (b *ImageBucket) Upload(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return objectKey, nil
}

// PresignedURL generates a presigned URL for an object.
func (b *ImageBucket) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	request, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(imageURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return request.URL, nil
}
