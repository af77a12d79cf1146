package minio

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
)

const (
	connectTimeout     = 10 * time.Second
	healthCheckTimeout = 5 * time.Second
)

// Connect verifies connectivity by listing buckets once.
func (m *implMinIO) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if _, err := m.minioClient.ListBuckets(ctx); err != nil {
		return NewConnectionError(err)
	}

	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()

	return nil
}

// HealthCheck verifies the connection is still healthy.
func (m *implMinIO) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	connected := m.connected
	m.mu.RUnlock()

	if !connected {
		return NewConnectionError(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := m.minioClient.ListBuckets(ctx); err != nil {
		m.mu.Lock()
		m.connected = false
		m.mu.Unlock()
		return NewConnectionError(err)
	}

	return nil
}

// Close marks the client as disconnected. The underlying HTTP client
// releases idle connections on its own.
func (m *implMinIO) Close() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (m *implMinIO) EnsureBucket(ctx context.Context, bucketName string) error {
	if bucketName == "" {
		return NewInvalidInputError("bucket name is required")
	}

	exists, err := m.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return handleMinIOError(err, "bucket_exists")
	}
	if exists {
		return nil
	}

	if err := m.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.config.Region}); err != nil {
		return handleMinIOError(err, "make_bucket")
	}

	return nil
}

// UploadFile uploads an object to MinIO storage.
func (m *implMinIO) UploadFile(ctx context.Context, req *UploadRequest) (*FileInfo, error) {
	if err := validateUploadRequest(req); err != nil {
		return nil, err
	}

	opts := minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: req.Metadata,
	}

	info, err := m.minioClient.PutObject(ctx, req.BucketName, req.ObjectName, req.Reader, req.Size, opts)
	if err != nil {
		return nil, handleMinIOError(err, "put_object")
	}

	return &FileInfo{
		BucketName:   req.BucketName,
		ObjectName:   req.ObjectName,
		OriginalName: req.OriginalName,
		Size:         info.Size,
		ContentType:  req.ContentType,
		ETag:         info.ETag,
		LastModified: time.Now(),
		Metadata:     req.Metadata,
	}, nil
}

// DownloadFile fetches an object from MinIO storage.
func (m *implMinIO) DownloadFile(ctx context.Context, req *DownloadRequest) (*DownloadResult, error) {
	if err := validateDownloadRequest(req); err != nil {
		return nil, err
	}

	obj, err := m.minioClient.GetObject(ctx, req.BucketName, req.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, handleMinIOError(err, "get_object")
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return nil, NewObjectNotFoundError(req.ObjectName)
		}
		return nil, handleMinIOError(err, "stat_object")
	}

	return &DownloadResult{
		Reader:      obj,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

// DeleteFile removes an object from MinIO storage.
func (m *implMinIO) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	if bucketName == "" || objectName == "" {
		return NewInvalidInputError("bucket name and object name are required")
	}

	if err := m.minioClient.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return handleMinIOError(err, "remove_object")
	}

	return nil
}
