package minio

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 100
	idleConnTimeout     = 90 * time.Second
)

// Config holds the MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// MinIO defines the interface for object storage operations.
type MinIO interface {
	// Connect establishes a connection to MinIO and verifies it's working
	Connect(ctx context.Context) error

	// HealthCheck verifies the connection is still healthy
	HealthCheck(ctx context.Context) error

	// Close closes the connection and cleans up resources
	Close() error

	// EnsureBucket creates the bucket if it does not exist yet
	EnsureBucket(ctx context.Context, bucketName string) error

	// UploadFile uploads an object to MinIO storage
	UploadFile(ctx context.Context, req *UploadRequest) (*FileInfo, error)

	// DownloadFile fetches an object from MinIO storage
	DownloadFile(ctx context.Context, req *DownloadRequest) (*DownloadResult, error)

	// DeleteFile removes an object from MinIO storage
	DeleteFile(ctx context.Context, bucketName, objectName string) error
}

// implMinIO implements MinIO on top of the minio-go client.
type implMinIO struct {
	minioClient *minio.Client
	config      *Config

	mu        sync.RWMutex
	connected bool
}

var _ MinIO = &implMinIO{}

// NewMinIO creates a new MinIO implementation with the provided configuration.
func NewMinIO(cfg *Config) (MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, NewInvalidInputError("endpoint is required")
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &implMinIO{
		minioClient: client,
		config:      cfg,
	}, nil
}
