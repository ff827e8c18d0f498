package client

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	appConfig "feedback-board-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a confirmed upload is not in the bucket
var ErrObjectNotFound = errors.New("object not found")

// allowedLogoTypes maps accepted logo content types to their file extension
var allowedLogoTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// LogoStorage stores board logos in object storage
type LogoStorage interface {
	GenerateLogoKey(boardID uuid.UUID, contentType string) (string, error)
	PresignLogoUpload(ctx context.Context, boardID uuid.UUID, contentType string) (string, string, error)
	ObjectExists(ctx context.Context, key string) error
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// S3Client wraps AWS S3 client and implements LogoStorage
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // MinIO 사용 시 로컬 엔드포인트
	presignTTL    time.Duration
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO requires explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for custom endpoint")
		}
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain (IAM role, ~/.aws/credentials)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
		presignTTL:    5 * time.Minute,
	}, nil
}

// GenerateLogoKey generates a unique object key for a board logo
// Format: boards/{boardId}/logo/{year}/{month}/{uuid}_{timestamp}.ext
func (c *S3Client) GenerateLogoKey(boardID uuid.UUID, contentType string) (string, error) {
	ext, ok := allowedLogoTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported logo content type: %s", contentType)
	}

	now := time.Now()
	return fmt.Sprintf("%s%s/%s/%s_%d%s",
		LogoKeyPrefix(boardID), now.Format("2006"), now.Format("01"), uuid.New().String(), now.Unix(), ext), nil
}

// LogoKeyPrefix is the prefix every logo key of the board starts with
func LogoKeyPrefix(boardID uuid.UUID) string {
	return path.Join("boards", boardID.String(), "logo") + "/"
}

// PresignLogoUpload returns a presigned PUT URL and the key it uploads to.
// The URL expires in 5 minutes.
func (c *S3Client) PresignLogoUpload(ctx context.Context, boardID uuid.UUID, contentType string) (string, string, error) {
	fileKey, err := c.GenerateLogoKey(boardID, contentType)
	if err != nil {
		return "", "", err
	}

	presignedReq, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = c.presignTTL
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedReq.URL, fileKey, nil
}

// ObjectExists checks that an uploaded object is present in the bucket
func (c *S3Client) ObjectExists(ctx context.Context, key string) error {
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to check object: %w", err)
	}
	return nil
}

// DeleteFile deletes a file from S3
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		// e.g. http://localhost:9000/bucket/key
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
