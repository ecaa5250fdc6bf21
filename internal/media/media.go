package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"laptopshop/pkg/slug"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported content type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// Config describes an S3 compatible bucket (AWS S3, MinIO, Cloudflare R2).
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base under which uploaded objects are served. When
	// empty, objects are addressed through the endpoint.
	PublicURL string
	Expires   time.Duration
}

// Upload is a presigned PUT target for one product image.
type Upload struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store hands out presigned upload URLs. Image bytes never pass through the API.
type Store struct {
	presign *s3.PresignClient
	cfg     Config
	now     func() time.Time
}

// NewStore builds the S3 presign client from static credentials.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: bucket must be set")
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}
	if cfg.Expires <= 0 {
		cfg.Expires = 15 * time.Minute
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{presign: s3.NewPresignClient(client), cfg: cfg, now: time.Now}, nil
}

// PresignUpload returns a presigned PUT URL for an image stored under folder.
func (s *Store) PresignUpload(ctx context.Context, folder, filename, contentType string) (*Upload, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	key := s.objectKey(folder, filename, ext)
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.cfg.Expires))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &Upload{
		UploadURL: req.URL,
		Key:       key,
		PublicURL: s.publicURL(key),
		ExpiresAt: s.now().Add(s.cfg.Expires),
	}, nil
}

func (s *Store) objectKey(folder, filename, ext string) string {
	folder = slug.Make(folder)
	if folder == "" {
		folder = "uploads"
	}
	base := slug.Make(strings.TrimSuffix(filename, path.Ext(filename)))
	if base == "" {
		base = "image"
	}
	d := s.now()
	return fmt.Sprintf("%s/%d/%02d/%s-%s%s", folder, d.Year(), d.Month(), base, uuid.NewString()[:8], ext)
}

func (s *Store) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key
	}
	return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
}
