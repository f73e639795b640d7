package storage

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Minio stores uploads as objects in one bucket.
type Minio struct {
	bucket string
	client *minio.Client
}

func NewMinio(cfg MinioConfig) (*Minio, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Minio{bucket: cfg.Bucket, client: cl}, nil
}

// EnsureBucket creates the bucket on first start.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		log.Printf("Created upload bucket %s", m.bucket)
	}
	return nil
}

func (m *Minio) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &UploadError{Name: name, Err: err}
	}
	return nil
}

func (m *Minio) Get(ctx context.Context, name string) (*Object, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioError(err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, translateMinioError(err)
	}

	return &Object{
		Body:        obj,
		Size:        info.Size,
		ModTime:     info.LastModified,
		ContentType: info.ContentType,
	}, nil
}

func translateMinioError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	}
	return err
}
