package httpserver

import (
	"github.com/gin-gonic/gin"

	configPostgre "aibi-gateway/config/postgre"
	"aibi-gateway/pkg/errors"
	"aibi-gateway/pkg/response"
)

const serviceName = "aibi-gateway"

// healthCheck reports the gateway's overall health, including every backing
// service. The analysis engine being down degrades queries but uploads and
// the status channel still work, so it is reported without failing the check.
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 503 {object} response.Resp
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := srv.redis.Ping(ctx); err != nil {
		response.HttpError(c, errors.NewHTTPError(503, "Redis connection failed"))
		return
	}
	if err := configPostgre.HealthCheck(ctx); err != nil {
		response.HttpError(c, errors.NewHTTPError(503, "Postgres connection failed"))
		return
	}
	if err := srv.storage.HealthCheck(ctx); err != nil {
		response.HttpError(c, errors.NewHTTPError(503, "Object storage connection failed"))
		return
	}

	engineStatus := "healthy"
	if err := srv.engine.Health(ctx); err != nil {
		srv.l.Warnf(ctx, "internal.httpserver.healthCheck.Engine: %v", err)
		engineStatus = "unavailable"
	}

	stats := srv.hub.GetStats()

	response.OK(c, gin.H{
		"status":             "healthy",
		"service":            serviceName,
		"engine":             engineStatus,
		"active_connections": stats.ActiveConnections,
		"active_users":       stats.ActiveUsers,
	})
}

// readyCheck reports whether the gateway can serve traffic.
// @Summary Readiness Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 503 {object} response.Resp
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := srv.redis.Ping(ctx); err != nil {
		response.HttpError(c, errors.NewHTTPError(503, "Redis connection not available"))
		return
	}
	if err := configPostgre.HealthCheck(ctx); err != nil {
		response.HttpError(c, errors.NewHTTPError(503, "Postgres connection not available"))
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

// liveCheck reports that the process is alive.
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
