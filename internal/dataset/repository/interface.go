package repository

import (
	"context"

	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

//go:generate mockery --name Repository
type Repository interface {
	Create(ctx context.Context, sc model.Scope, opts CreateOptions) (model.Dataset, error)
	Get(ctx context.Context, sc model.Scope, opts GetOptions) ([]model.Dataset, paginator.Paginator, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.Dataset, error)
	UpdateStatus(ctx context.Context, sc model.Scope, opts UpdateStatusOptions) (model.Dataset, error)
	Delete(ctx context.Context, sc model.Scope, id string) error
}
