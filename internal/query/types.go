package query

import (
	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

type AskInput struct {
	DatasetID string
	Question  string
}

type GetInput struct {
	PaginateQuery paginator.PaginateQuery
	DatasetID     string
}

type QueryOutput struct {
	Query model.Query
}

type GetQueryOutput struct {
	Queries   []model.Query
	Paginator paginator.Paginator
}
