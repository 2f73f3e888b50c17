package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

// ObjectStore persists lesson assets and course thumbnails. Keys are opaque
// to callers; PublicURL maps a key to whatever the deployment serves it
// from.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (int64, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	PublicURL(key string) string
}

type bucketService struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func NewBucketService(log *logger.Logger) (ObjectStore, error) {
	serviceLog := log.With("service", "BucketService")

	bucket := strings.TrimSpace(os.Getenv("CONTENT_GCS_BUCKET_NAME"))
	if bucket == "" {
		return nil, fmt.Errorf("missing env var CONTENT_GCS_BUCKET_NAME")
	}
	cdnDomain := strings.TrimSpace(os.Getenv("CONTENT_CDN_DOMAIN"))

	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &bucketService{
		log:       serviceLog,
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (s *bucketService) Upload(ctx context.Context, key string, contentType string, body io.Reader) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	n, err := io.Copy(w, body)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("upload %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("finalize upload %q: %w", key, err)
	}
	s.log.Debug("uploaded object", "key", key, "bytes", n)
	return n, nil
}

func (s *bucketService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	return r, nil
}

func (s *bucketService) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *bucketService) DeletePrefix(ctx context.Context, prefix string) error {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("list %q: %w", prefix, err)
		}
		if err := s.Delete(ctx, attrs.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *bucketService) PublicURL(key string) string {
	escaped := url.PathEscape(key)
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, escaped)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, escaped)
}
