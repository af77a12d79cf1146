package engine

import "context"

//go:generate mockery --name Engine
type Engine interface {
	// Health checks that the analysis engine is reachable.
	Health(ctx context.Context) error

	// ProcessDataset asks the engine to ingest an uploaded file. The engine
	// works asynchronously and reports progress over the event channel.
	ProcessDataset(ctx context.Context, ip ProcessDatasetInput) error

	// Ask submits a natural-language question about a processed dataset and
	// blocks until the engine produces an answer.
	Ask(ctx context.Context, ip AskInput) (AskOutput, error)
}
