package http

import (
	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/middleware"
	pkgLog "aibi-gateway/pkg/log"
)

type handler struct {
	l  pkgLog.Logger
	uc dataset.UseCase
}

// New creates the dataset HTTP handler.
func New(l pkgLog.Logger, uc dataset.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}

// MapRoutes registers the public dataset routes.
func (h *handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	data := r.Group("/data", mw.Scope())
	{
		data.POST("/upload", h.Upload)
		data.GET("/datasets", h.Get)
		data.GET("/datasets/:id", h.Detail)
		data.DELETE("/datasets/:id", h.Delete)
	}
}

// MapInternalRoutes registers the engine-facing callback routes.
func (h *handler) MapInternalRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	datasets := r.Group("/datasets", mw.Scope())
	{
		datasets.POST("/:id/status", h.MarkProcessed)
	}
}
