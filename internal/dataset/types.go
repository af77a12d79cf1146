package dataset

import (
	"encoding/json"
	"io"

	"aibi-gateway/internal/model"
	"aibi-gateway/pkg/paginator"
)

type UploadInput struct {
	FileName string
	FileType string
	Size     int64
	Reader   io.Reader
}

type GetInput struct {
	PaginateQuery paginator.PaginateQuery
}

type MarkProcessedInput struct {
	DatasetID    string
	Status       string
	RowCount     *int64
	ColumnInfo   json.RawMessage
	ErrorMessage string
}

type DatasetOutput struct {
	Dataset model.Dataset
}

type GetDatasetOutput struct {
	Datasets  []model.Dataset
	Paginator paginator.Paginator
}
