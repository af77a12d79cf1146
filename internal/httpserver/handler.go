package httpserver

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// Executes the init function in docs.go which registers the Swagger docs.
	_ "aibi-gateway/docs"

	datasetHTTP "aibi-gateway/internal/dataset/delivery/http"
	"aibi-gateway/internal/middleware"
	queryHTTP "aibi-gateway/internal/query/delivery/http"
)

const (
	Api         = "/api/v1"
	InternalApi = "/internal/api/v1"
)

func (srv *HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l)

	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	srv.gin.Use(middleware.Recovery(srv.l, srv.discord))

	// Health check endpoints
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := srv.gin.Group(Api)
	{
		datasetHTTP.New(srv.l, srv.datasetUC).MapRoutes(api, mw)
		queryHTTP.New(srv.l, srv.queryUC).MapRoutes(api, mw)

		api.GET("/ws", srv.wsHandler.HandleWebSocket)
		api.GET("/ws/status", srv.wsHandler.Status)
	}

	// Engine-facing callbacks; not exposed through the public reverse proxy.
	internalApi := srv.gin.Group(InternalApi)
	{
		datasetHTTP.New(srv.l, srv.datasetUC).MapInternalRoutes(internalApi, mw)
	}

	return nil
}
