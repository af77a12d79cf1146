package dataset

import (
	"context"

	"aibi-gateway/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Upload stores the file, records the dataset, and dispatches it to the
	// analysis engine for asynchronous processing.
	Upload(ctx context.Context, sc model.Scope, ip UploadInput) (DatasetOutput, error)

	// Get returns the caller's datasets, paginated.
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetDatasetOutput, error)

	// Detail returns one dataset by id.
	Detail(ctx context.Context, sc model.Scope, id string) (DatasetOutput, error)

	// Delete soft-deletes the dataset record and removes the stored object.
	Delete(ctx context.Context, sc model.Scope, id string) error

	// MarkProcessed records the engine's processing outcome and emits the
	// completion event on the status channel.
	MarkProcessed(ctx context.Context, sc model.Scope, ip MarkProcessedInput) (DatasetOutput, error)
}
