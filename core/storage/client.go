package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client defines the interface for storage operations.
type Client interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// NewClient creates a new Minio client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// The client connects lazily; callers verify access with BucketExists.

	return &minioClientWrapper{Client: minioClient}, nil
}

type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// ObjectURIScheme is the scheme that marks a location as living in object storage.
const ObjectURIScheme = "s3://"

// IsObjectURI reports whether location uses the s3:// scheme.
func IsObjectURI(location string) bool {
	return strings.HasPrefix(strings.TrimSpace(location), ObjectURIScheme)
}

// ParseObjectURI splits "s3://bucket/path/to/object" into bucket and object name.
func ParseObjectURI(location string) (bucket, object string, err error) {
	location = strings.TrimSpace(location)
	if !IsObjectURI(location) {
		return "", "", fmt.Errorf("not an object uri: %q", location)
	}
	rest := strings.TrimPrefix(location, ObjectURIScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || strings.Trim(object, "/") == "" {
		return "", "", fmt.Errorf("object uri %q must look like s3://bucket/object", location)
	}
	return bucket, strings.TrimPrefix(object, "/"), nil
}
