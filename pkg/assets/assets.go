package assets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	cb "github.com/readstack/library-service/pkg/circuit_breaker"
)

type Config struct {
	Bucket          string `envconfig:"ASSETS_BUCKET"`
	Region          string `envconfig:"ASSETS_REGION" default:"us-east-1"`
	AccessKeyID     string `envconfig:"ASSETS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"ASSETS_SECRET_ACCESS_KEY"`
}

func (c Config) Enabled() bool { return c.Bucket != "" }

// Client stores uploaded images on the asset host. Only the returned opaque
// key is persisted by the rest of the service. Calls run behind a circuit
// breaker so a degraded asset host fails fast instead of holding requests.
type Client struct {
	s3     *s3.Client
	bucket string
	cb     cb.CircuitBreaker
	log    *zap.Logger
}

func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("assets bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	const (
		recordLength     = 20
		timeout          = 30 * time.Second
		percentile       = 0.5
		recoveryRequests = 3
	)
	return &Client{
		s3:     s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		cb:     cb.NewCircuitBreaker(recordLength, timeout, percentile, recoveryRequests),
		log:    log.Named("assets"),
	}, nil
}

// Upload streams the file to the asset host and returns the generated key.
func (c *Client) Upload(ctx context.Context, originalFilename string, body io.Reader, contentType string) (string, error) {
	key := uuid.New().String() + filepath.Ext(originalFilename)
	err := c.cb.Call(func() error {
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucket),
			Key:         aws.String(key),
			Body:        body,
			ContentType: aws.String(contentType),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the object. Callers treat failures as best-effort.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.cb.Call(func() error {
		_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		})
		return err
	})
}
