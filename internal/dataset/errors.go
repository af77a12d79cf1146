package dataset

import "errors"

var (
	ErrDatasetNotFound     = errors.New("dataset not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("empty file")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidStatus       = errors.New("invalid processing status")
)
