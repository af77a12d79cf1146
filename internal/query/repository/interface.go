package repository

import (
	"context"

	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	Create(ctx context.Context, sc model.Scope, opt CreateOptions) (model.Query, error)
	Get(ctx context.Context, sc model.Scope, opt GetOptions) ([]model.Query, paginator.Paginator, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.Query, error)
	UpdateResult(ctx context.Context, sc model.Scope, opt UpdateResultOptions) (model.Query, error)
}
