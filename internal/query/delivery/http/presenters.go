package http

import (
	"encoding/json"

	"aibi-gateway/internal/model"
	"aibi-gateway/internal/query"
	"aibi-gateway/pkg/paginator"
)

type askReq struct {
	DatasetID string `json:"dataset_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

func (r askReq) toInput() query.AskInput {
	return query.AskInput{
		DatasetID: r.DatasetID,
		Question:  r.Question,
	}
}

type getReq struct {
	paginator.PaginateQuery
	DatasetID string `form:"dataset_id"`
}

type queryItem struct {
	ID           string          `json:"id"`
	DatasetID    string          `json:"dataset_id"`
	Question     string          `json:"question"`
	SQLQuery     *string         `json:"sql_query,omitempty"`
	Answer       *string         `json:"answer,omitempty"`
	ChartSpec    json.RawMessage `json:"chart_spec,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

func newQueryItem(qr model.Query) queryItem {
	return queryItem{
		ID:           qr.ID,
		DatasetID:    qr.DatasetID,
		Question:     qr.Question,
		SQLQuery:     qr.SQLQuery,
		Answer:       qr.Answer,
		ChartSpec:    qr.ChartSpec,
		Status:       qr.Status,
		ErrorMessage: qr.ErrorMessage,
		CreatedAt:    qr.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type getQueriesResp struct {
	Items     []queryItem                 `json:"items"`
	Paginator paginator.PaginatorResponse `json:"paginator"`
}

func newGetQueriesResp(out query.GetQueryOutput) getQueriesResp {
	items := make([]queryItem, len(out.Queries))
	for i, qr := range out.Queries {
		items[i] = newQueryItem(qr)
	}
	return getQueriesResp{
		Items:     items,
		Paginator: out.Paginator.ToResponse(),
	}
}
