package query

import (
	"context"

	"aibi-gateway/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Ask runs a natural-language question against a processed dataset and
	// returns the recorded query with the engine's answer. Progress is
	// mirrored onto the status channel while the engine works.
	Ask(ctx context.Context, sc model.Scope, ip AskInput) (QueryOutput, error)

	// Get returns the caller's past queries, paginated.
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetQueryOutput, error)

	// Detail returns one query by id.
	Detail(ctx context.Context, sc model.Scope, id string) (QueryOutput, error)
}
