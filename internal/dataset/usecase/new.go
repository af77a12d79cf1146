package usecase

import (
	"time"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/notifier"
	pkgLog "aibi-gateway/pkg/log"
	pkgMinio "aibi-gateway/pkg/minio"
)

type usecase struct {
	l             pkgLog.Logger
	repo          repository.Repository
	storage       pkgMinio.MinIO
	bucket        string
	maxUploadSize int64
	engine        engine.Engine
	publisher     notifier.EventPublisher
	clock         func() time.Time
}

func New(
	l pkgLog.Logger,
	repo repository.Repository,
	storage pkgMinio.MinIO,
	bucket string,
	maxUploadSize int64,
	eng engine.Engine,
	publisher notifier.EventPublisher,
) dataset.UseCase {
	return &usecase{
		l:             l,
		repo:          repo,
		storage:       storage,
		bucket:        bucket,
		maxUploadSize: maxUploadSize,
		engine:        eng,
		publisher:     publisher,
		clock:         time.Now,
	}
}
