package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"aibi-gateway/internal/dataset"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/notifier"
	notifierRedis "aibi-gateway/internal/notifier/redis"
	"aibi-gateway/internal/query"
	"aibi-gateway/pkg/discord"
	"aibi-gateway/pkg/log"
	pkgMinio "aibi-gateway/pkg/minio"
	pkgRedis "aibi-gateway/pkg/redis"
)

// HTTPServer holds the gateway's HTTP surface and all of its dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) starts background services and serves HTTP.
type HTTPServer struct {
	gin  *gin.Engine
	l    log.Logger
	port int
	mode string

	// Domain usecases
	datasetUC dataset.UseCase
	queryUC   query.UseCase

	// Realtime status channel
	hub        *notifier.Hub
	wsHandler  *notifier.Handler
	subscriber *notifierRedis.Subscriber

	// External services, used by health checks
	redis   *pkgRedis.Client
	storage pkgMinio.MinIO
	engine  engine.Engine
	discord discord.IDiscord
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Port int
	Mode string

	DatasetUC dataset.UseCase
	QueryUC   query.UseCase

	Hub        *notifier.Hub
	WSHandler  *notifier.Handler
	Subscriber *notifierRedis.Subscriber

	Redis   *pkgRedis.Client
	Storage pkgMinio.MinIO
	Engine  engine.Engine
	Discord discord.IDiscord
}

// New creates an HTTPServer. It does not start any goroutines; use Run().
func New(l log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		gin:        gin.New(),
		l:          l,
		port:       cfg.Port,
		mode:       cfg.Mode,
		datasetUC:  cfg.DatasetUC,
		queryUC:    cfg.QueryUC,
		hub:        cfg.Hub,
		wsHandler:  cfg.WSHandler,
		subscriber: cfg.Subscriber,
		redis:      cfg.Redis,
		storage:    cfg.Storage,
		engine:     cfg.Engine,
		discord:    cfg.Discord,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.datasetUC == nil {
		return errors.New("dataset usecase is required")
	}
	if srv.queryUC == nil {
		return errors.New("query usecase is required")
	}
	if srv.hub == nil || srv.wsHandler == nil || srv.subscriber == nil {
		return errors.New("notifier hub, handler and subscriber are required")
	}
	if srv.redis == nil {
		return errors.New("redis client is required")
	}
	if srv.storage == nil {
		return errors.New("storage client is required")
	}
	if srv.engine == nil {
		return errors.New("engine client is required")
	}

	return nil
}
