package http

import (
	"encoding/json"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

type markProcessedReq struct {
	Status     string          `json:"status" binding:"required"`
	RowCount   *int64          `json:"row_count"`
	ColumnInfo json.RawMessage `json:"column_info"`
	Error      string          `json:"error"`
}

func (r markProcessedReq) toInput(datasetID string) dataset.MarkProcessedInput {
	return dataset.MarkProcessedInput{
		DatasetID:    datasetID,
		Status:       r.Status,
		RowCount:     r.RowCount,
		ColumnInfo:   r.ColumnInfo,
		ErrorMessage: r.Error,
	}
}

type datasetItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	FileType     string          `json:"file_type"`
	SizeBytes    int64           `json:"size_bytes"`
	RowCount     *int64          `json:"row_count,omitempty"`
	ColumnInfo   json.RawMessage `json:"column_info,omitempty"`
	Status       string          `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

func newDatasetItem(ds model.Dataset) datasetItem {
	return datasetItem{
		ID:           ds.ID,
		Name:         ds.Name,
		FileType:     ds.FileType,
		SizeBytes:    ds.SizeBytes,
		RowCount:     ds.RowCount,
		ColumnInfo:   ds.ColumnInfo,
		Status:       ds.Status,
		ErrorMessage: ds.ErrorMessage,
		CreatedAt:    ds.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type getDatasetsResp struct {
	Items     []datasetItem               `json:"items"`
	Paginator paginator.PaginatorResponse `json:"paginator"`
}

func newGetDatasetsResp(out dataset.GetDatasetOutput) getDatasetsResp {
	items := make([]datasetItem, len(out.Datasets))
	for i, ds := range out.Datasets {
		items[i] = newDatasetItem(ds)
	}
	return getDatasetsResp{
		Items:     items,
		Paginator: out.Paginator.ToResponse(),
	}
}
