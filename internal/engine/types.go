package engine

import "encoding/json"

type ProcessDatasetInput struct {
	DatasetID string `json:"dataset_id"`
	UserID    string `json:"user_id"`
	ObjectKey string `json:"object_key"`
	FileType  string `json:"file_type"`
}

type AskInput struct {
	QueryID   string `json:"query_id"`
	DatasetID string `json:"dataset_id"`
	UserID    string `json:"user_id"`
	Question  string `json:"question"`
}

type AskOutput struct {
	Answer    string          `json:"answer"`
	SQLQuery  string          `json:"sql_query"`
	ChartSpec json.RawMessage `json:"chart_spec,omitempty"`
}
