package http

import (
	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/middleware"
	"aibi-gateway/internal/query"
	pkgErrors "aibi-gateway/pkg/errors"
	"aibi-gateway/pkg/response"
)

// Ask godoc
// @Summary      Ask a natural-language question against a dataset
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        body  body  askReq  true  "Question"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/query/ask [post]
func (h *handler) Ask(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.query.delivery.http.Ask.Bind: %v", err)
		response.Error(c, pkgErrors.NewBadRequestHTTPError("dataset_id and question are required"), nil)
		return
	}

	out, err := h.uc.Ask(ctx, sc, req.toInput())
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newQueryItem(out.Query))
}

// Get godoc
// @Summary      List past queries
// @Tags         query
// @Produce      json
// @Param        page        query  int     false  "Page number"
// @Param        limit       query  int     false  "Items per page"
// @Param        dataset_id  query  string  false  "Filter by dataset"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/query/history [get]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	var req getReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError("Invalid pagination parameters"), nil)
		return
	}

	out, err := h.uc.Get(ctx, sc, query.GetInput{
		PaginateQuery: req.PaginateQuery,
		DatasetID:     req.DatasetID,
	})
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newGetQueriesResp(out))
}

// Detail godoc
// @Summary      Get query detail
// @Tags         query
// @Produce      json
// @Param        id  path  string  true  "Query id"
// @Success      200  {object}  response.Resp
// @Router       /api/v1/query/history/{id} [get]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	out, err := h.uc.Detail(ctx, sc, c.Param("id"))
	if err != nil {
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, newQueryItem(out.Query))
}
