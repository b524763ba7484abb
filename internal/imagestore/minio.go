package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the settings of an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base the bucket is served from; when empty the
	// endpoint address is used.
	PublicURL string
	Folder    string
}

// MinioStore writes images to an S3-compatible bucket with a public-read policy.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	folder  string
	baseURL string
}

// NewMinioStore creates a MinioStore. No request is made until the first upload.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		base = client.EndpointURL().String() + "/" + cfg.Bucket
	}
	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  cfg.Folder,
		baseURL: strings.TrimRight(base, "/"),
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, img Image) (string, error) {
	name := ObjectName(s.folder, img.Filename)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.ContentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	return s.objectURL(name), nil
}

func (s *MinioStore) objectURL(name string) string {
	return s.baseURL + "/" + name
}
