package http

import (
	"net/http"

	"aibi-gateway/internal/dataset"
	pkgErrors "aibi-gateway/pkg/errors"
	"aibi-gateway/pkg/response"
)

var errorMapping = response.ErrorMapping{
	dataset.ErrDatasetNotFound:     pkgErrors.NewNotFoundHTTPError("Dataset not found"),
	dataset.ErrUnsupportedFileType: pkgErrors.NewBadRequestHTTPError("Unsupported file type, expected csv, xls or xlsx"),
	dataset.ErrEmptyFile:           pkgErrors.NewBadRequestHTTPError("Uploaded file is empty"),
	dataset.ErrFileTooLarge:        pkgErrors.NewHTTPError(http.StatusRequestEntityTooLarge, "Uploaded file exceeds the maximum allowed size"),
	dataset.ErrInvalidStatus:       pkgErrors.NewBadRequestHTTPError("Status must be ready or failed"),
}
