package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aibi-gateway/config"
	miniopkg "aibi-gateway/pkg/minio"
)

const (
	// defaultConnectTimeout is the maximum time to wait for initial connection
	defaultConnectTimeout = 5 * time.Second
	// defaultMaxRetries is the default number of retry attempts
	defaultMaxRetries = 3
)

var (
	instance miniopkg.MinIO
	once     sync.Once
	mu       sync.RWMutex
	initErr  error // Stores the last initialization error to allow retry
)

// Connect initializes and connects to MinIO using singleton pattern.
// If connection fails, it can be retried by calling Connect() again.
// Returns the existing instance if already connected.
func Connect(ctx context.Context, cfg config.MinIOConfig) (miniopkg.MinIO, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance, nil
	}

	// Reset sync.Once if previous initialization failed to allow retry
	if initErr != nil {
		once = sync.Once{}
		initErr = nil
	}

	var err error
	once.Do(func() {
		connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()

		impl, implErr := miniopkg.NewMinIO(&miniopkg.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Region:    cfg.Region,
		})
		if implErr != nil {
			err = fmt.Errorf("failed to create MinIO implementation: %w", implErr)
			initErr = err
			return
		}

		if connectErr := impl.Connect(connectCtx); connectErr != nil {
			err = fmt.Errorf("failed to connect to MinIO: %w", connectErr)
			initErr = err
			return
		}

		instance = impl
	})

	return instance, err
}

// ConnectWithRetry initializes and connects to MinIO with retry logic.
func ConnectWithRetry(ctx context.Context, cfg config.MinIOConfig, maxRetries int) (miniopkg.MinIO, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		client, err := Connect(ctx, cfg)
		if err == nil {
			return client, nil
		}

		lastErr = err
		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d retries: %w", maxRetries, lastErr)
}

// GetClient returns the singleton MinIO client instance.
// Panics if the client has not been initialized by calling Connect() first.
func GetClient() miniopkg.MinIO {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		panic("MinIO client not initialized. Call Connect() first")
	}
	return instance
}

// Disconnect closes the MinIO connection and resets the singleton instance.
func Disconnect(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		if err := instance.Close(); err != nil {
			return fmt.Errorf("failed to close MinIO connection: %w", err)
		}

		instance = nil
		initErr = nil
		once = sync.Once{}
	}
	return nil
}

// HealthCheck performs a health check on the MinIO connection.
func HealthCheck(ctx context.Context) error {
	mu.RLock()
	defer mu.RUnlock()

	if instance == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	return instance.HealthCheck(ctx)
}

// IsConnected checks if the MinIO client instance exists.
// Use HealthCheck() to verify the connection is actually alive.
func IsConnected() bool {
	mu.RLock()
	defer mu.RUnlock()

	return instance != nil
}
