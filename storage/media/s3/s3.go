package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/storage/media"
	storageutil "github.com/indieinfra/mediaprep/storage/util"
)

type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

// StoreImpl uploads media to S3 or any compatible service (R2, Backblaze, MinIO).
type StoreImpl struct {
	client     s3Client
	bucket     string
	publicBase string
	pattern    *storageutil.PathPattern
	now        func() time.Time
}

func NewS3MediaStore(cfg *config.S3MediaStrategy) (*StoreImpl, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 media config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	secure := true
	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
		endpointHost = parsed.Host
		secure = !strings.EqualFold(parsed.Scheme, "http")
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	return &StoreImpl{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: storageutil.NormalizeBaseURL(cfg.PublicUrl),
		pattern:    storageutil.PatternOrDefault(cfg.PathPattern),
		now:        time.Now,
	}, nil
}

func (s *StoreImpl) Upload(ctx context.Context, u *media.Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", fmt.Errorf("upload body is required")
	}

	key, err := media.ObjectKey(s.pattern, u, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to generate object key: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: u.ContentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, u.Body, u.Size, opts); err != nil {
		return "", fmt.Errorf("upload to s3 failed: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *StoreImpl) Delete(ctx context.Context, urlStr string) error {
	key, err := s.keyFromURL(urlStr)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

func (s *StoreImpl) objectURL(key string) string {
	return s.publicBase + key
}

func (s *StoreImpl) keyFromURL(urlStr string) (string, error) {
	if !strings.HasPrefix(urlStr, s.publicBase) {
		return "", fmt.Errorf("url does not belong to this media store")
	}

	key := strings.TrimPrefix(urlStr, s.publicBase)
	if key == "" {
		return "", fmt.Errorf("url %q has no object key", urlStr)
	}

	return key, nil
}

var _ media.Store = (*StoreImpl)(nil)
