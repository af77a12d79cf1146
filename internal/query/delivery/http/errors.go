package http

import (
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/query"
	pkgErrors "aibi-gateway/pkg/errors"
	"aibi-gateway/pkg/response"
)

var errorMapping = response.ErrorMapping{
	query.ErrQueryNotFound:      pkgErrors.NewNotFoundHTTPError("Query not found"),
	query.ErrDatasetNotFound:    pkgErrors.NewNotFoundHTTPError("Dataset not found"),
	query.ErrDatasetNotReady:    pkgErrors.NewBadRequestHTTPError("Dataset is still processing, wait for it to become ready"),
	query.ErrEmptyQuestion:      pkgErrors.NewBadRequestHTTPError("Question must not be empty"),
	engine.ErrEngineUnavailable: pkgErrors.NewHTTPError(503, "Analysis engine is unavailable"),
}
