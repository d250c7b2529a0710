package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iliyamo/ticket-activity/internal/clock"
)

// S3Uploader stores attachment bytes in an S3-compatible bucket and
// returns URLs under a public base.  The object key layout mirrors the
// legacy file server so existing links keep resolving:
// {images|document}/{year}/{Month}/{name}-{suffix}{ext}.
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	clk     clock.Clock
}

// S3Config carries the settings needed to reach the bucket.
type S3Config struct {
	Endpoint  string // custom endpoint for S3-compatible stores; empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	BaseURL   string // public URL prefix joined with the object key
}

// NewS3Uploader builds the client.  Static credentials are used when
// provided; otherwise the SDK's default chain applies.
func NewS3Uploader(ctx context.Context, cfg S3Config, clk clock.Clock) (*S3Uploader, error) {
	if cfg.Bucket == "" || cfg.BaseURL == "" {
		return nil, errors.New("storage bucket and public base URL are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // most S3-compatible stores need path-style
		}
	})
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		clk:     clk,
	}, nil
}

// Upload writes the bytes under a MIME-partitioned key and returns the
// public URL.
func (u *S3Uploader) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := objectKey(u.clk.Now(), fileName, contentType)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("storage: put object %s failed: %v", key, err)
		return "", err
	}
	return u.baseURL + "/" + key, nil
}
