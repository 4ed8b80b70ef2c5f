// Package storage issues presigned S3 PUT URLs for item images. The
// server never proxies image bytes; clients upload straight to the
// bucket and submit the returned object key with the listing.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type ImageStorage interface {
	PresignPutURL(ctx context.Context, userID, filename, contentType string) (url, key string, err error)
}

type s3Storage struct {
	bucket        string
	presignClient *s3.PresignClient
}

type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func NewS3Storage(ctx context.Context, opts Options) (ImageStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &s3Storage{
		bucket:        opts.Bucket,
		presignClient: s3.NewPresignClient(client),
	}, nil
}

const presignExpiry = 15 * time.Minute

func (s *s3Storage) PresignPutURL(ctx context.Context, userID, filename, contentType string) (string, string, error) {
	objectKey := fmt.Sprintf("uploads/%s/%s_%s", userID, uuid.NewString(), filename)

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign PUT for key %s: %w", objectKey, err)
	}

	return req.URL, objectKey, nil
}
