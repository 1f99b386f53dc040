package filestorage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Provider is the object storage behind trip documents and expense
// receipts. Keys are laid out per trip: trips/<trip_id>/receipts/... and
// trips/<trip_id>/docs/...
type Provider interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Remove(ctx context.Context, key string) error
}

var Instance Provider

func NewInstance(s3client *minio.Client, bucket string) {
	Instance = &impl{
		s3client: s3client,
		bucket:   bucket,
	}
}

type impl struct {
	s3client *minio.Client
	bucket   string
}

func (i impl) EnsureBucket(ctx context.Context) error {
	exists, err := i.s3client.BucketExists(ctx, i.bucket)
	if err != nil {
		return errors.Wrap(err, "failed to check bucket")
	}
	if exists {
		return nil
	}
	err = i.s3client.MakeBucket(ctx, i.bucket, minio.MakeBucketOptions{Region: "us-east-1"})
	if err != nil {
		return errors.Wrap(err, "failed to create bucket")
	}
	return nil
}

func (i impl) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to upload %s", key)
	}
	return nil
}

func (i impl) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", key)
	}
	defer obj.Close()
	buf := bytes.Buffer{}
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}
	return buf.Bytes(), nil
}

func (i impl) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := i.s3client.PresignedGetObject(ctx, i.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", errors.Wrapf(err, "failed to presign %s", key)
	}
	return u.String(), nil
}

func (i impl) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for obj := range i.s3client.ListObjects(ctx, i.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrapf(obj.Err, "failed to list %s", prefix)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (i impl) Remove(ctx context.Context, key string) error {
	err := i.s3client.RemoveObject(ctx, i.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "failed to remove %s", key)
	}
	return nil
}
