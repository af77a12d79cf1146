package usecase

import (
	"time"

	datasetRepo "aibi-gateway/internal/dataset/repository"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/notifier"
	"aibi-gateway/internal/query"
	"aibi-gateway/internal/query/repository"
	pkgLog "aibi-gateway/pkg/log"
)

type usecase struct {
	l         pkgLog.Logger
	repo      repository.Repository
	datasets  datasetRepo.Repository
	engine    engine.Engine
	publisher notifier.EventPublisher
	clock     func() time.Time
}

func New(
	l pkgLog.Logger,
	repo repository.Repository,
	datasets datasetRepo.Repository,
	eng engine.Engine,
	publisher notifier.EventPublisher,
) query.UseCase {
	return &usecase{
		l:         l,
		repo:      repo,
		datasets:  datasets,
		engine:    eng,
		publisher: publisher,
		clock:     time.Now,
	}
}
