package http

import (
	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/middleware"
	pkgErrors "aibi-gateway/pkg/errors"
	"aibi-gateway/pkg/paginator"
	"aibi-gateway/pkg/response"
)

// Upload godoc
// @Summary      Upload a dataset file for processing
// @Tags         data
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "Dataset file (CSV or Excel)"
// @Param        user_id  formData  string  false  "Owner user id"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/data/upload [post]
func (h *handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.l.Warnf(ctx, "internal.dataset.delivery.http.Upload.FormFile: %v", err)
		response.Error(c, pkgErrors.NewBadRequestHTTPError("Missing file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.l.Errorf(ctx, "internal.dataset.delivery.http.Upload.Open: %v", err)
		response.Error(c, err, nil)
		return
	}
	defer file.Close()

	out, err := h.uc.Upload(ctx, sc, dataset.UploadInput{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		Reader:   file,
	})
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newDatasetItem(out.Dataset))
}

// Get godoc
// @Summary      List uploaded datasets
// @Tags         data
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Items per page"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/data/datasets [get]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	var pq paginator.PaginateQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError("Invalid pagination parameters"), nil)
		return
	}

	out, err := h.uc.Get(ctx, sc, dataset.GetInput{PaginateQuery: pq})
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newGetDatasetsResp(out))
}

// Detail godoc
// @Summary      Get dataset detail
// @Tags         data
// @Produce      json
// @Param        id  path  string  true  "Dataset id"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/data/datasets/{id} [get]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	out, err := h.uc.Detail(ctx, sc, c.Param("id"))
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newDatasetItem(out.Dataset))
}

// Delete godoc
// @Summary      Delete a dataset
// @Tags         data
// @Produce      json
// @Param        id  path  string  true  "Dataset id"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/data/datasets/{id} [delete]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	if err := h.uc.Delete(ctx, sc, c.Param("id")); err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, nil)
}

// MarkProcessed records the engine's processing outcome for a dataset.
// It is served on the internal API surface; only the analysis engine calls it.
func (h *handler) MarkProcessed(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	var req markProcessedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.dataset.delivery.http.MarkProcessed.Bind: %v", err)
		response.Error(c, pkgErrors.NewBadRequestHTTPError("Invalid status payload"), nil)
		return
	}

	out, err := h.uc.MarkProcessed(ctx, sc, req.toInput(c.Param("id")))
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newDatasetItem(out.Dataset))
}
