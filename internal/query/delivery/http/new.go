package http

import (
	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/middleware"
	"aibi-gateway/internal/query"
	pkgLog "aibi-gateway/pkg/log"
)

type handler struct {
	l  pkgLog.Logger
	uc query.UseCase
}

// New creates the query HTTP handler.
func New(l pkgLog.Logger, uc query.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}

// MapRoutes registers the query routes.
func (h *handler) MapRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	q := r.Group("/query", mw.Scope())
	{
		q.POST("/ask", h.Ask)
		q.GET("/history", h.Get)
		q.GET("/history/:id", h.Detail)
	}
}
