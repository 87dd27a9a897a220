// Package s3 uploads export files to S3 compatible object storage
// (AWS S3, Cloudflare R2, MinIO) and builds their public download URLs.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker/v2"
)

const (
	// partSize is the smallest multipart chunk S3 accepts. Uploads of unknown
	// length buffer one part in memory at a time.
	partSize = 5 << 20

	breakerName             = "object-storage"
	breakerMaxFailures      = 5
	breakerOpenStateTimeout = 30 * time.Second
)

type objectPutter interface {
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// NewClient connects a minio client to an S3 compatible endpoint such as
// "<account>.r2.cloudflarestorage.com" or "localhost:9000".
func NewClient(endpoint, region, accessKeyID, secretAccessKey string, useSSL bool) (*minio.Client, error) {
	const op = "adapter.storage.s3.NewClient"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create storage client: %w", op, err)
	}

	return client, nil
}

type Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
	breaker   *gobreaker.CircuitBreaker[minio.UploadInfo]
}

func NewUploader(client objectPutter, bucket, publicURL string, logger *slog.Logger) *Uploader {
	breaker := gobreaker.NewCircuitBreaker[minio.UploadInfo](gobreaker.Settings{
		Name:    breakerName,
		Timeout: breakerOpenStateTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		breaker:   breaker,
	}
}

// Upload streams body to the object key and returns its public URL. The body
// is read until EOF; its length does not need to be known in advance.
func (u *Uploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	const op = "adapter.storage.s3.Uploader.Upload"

	_, err := u.breaker.Execute(func() (minio.UploadInfo, error) {
		return u.client.PutObject(ctx, u.bucket, key, body, -1, minio.PutObjectOptions{
			ContentType: contentType,
			PartSize:    partSize,
		})
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to put object %q: %w", op, key, err)
	}

	publicURL, err := url.JoinPath(u.publicURL, key)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build public url: %w", op, err)
	}

	return publicURL, nil
}
