package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aibi-gateway/config"
	configMinio "aibi-gateway/config/minio"
	configPostgre "aibi-gateway/config/postgre"
	configRedis "aibi-gateway/config/redis"
	datasetPostgres "aibi-gateway/internal/dataset/repository/postgre"
	datasetUsecase "aibi-gateway/internal/dataset/usecase"
	"aibi-gateway/internal/engine"
	"aibi-gateway/internal/httpserver"
	"aibi-gateway/internal/notifier"
	notifierRedis "aibi-gateway/internal/notifier/redis"
	queryPostgres "aibi-gateway/internal/query/repository/postgre"
	queryUsecase "aibi-gateway/internal/query/usecase"
	"aibi-gateway/pkg/discord"
	"aibi-gateway/pkg/log"
)

// @title       AIBI Gateway API
// @description Gateway for the local AI-BI platform: dataset uploads, natural-language queries and the realtime status channel
// @version     1.0
// @host        localhost:8000
// @schemes     http ws
// @BasePath    /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting AIBI gateway...")

	// Discord webhook for bug reports (optional)
	var discordClient discord.IDiscord
	if cfg.Discord.WebhookID != "" && cfg.Discord.WebhookToken != "" {
		d, err := discord.New(logger, &discord.DiscordWebhook{
			ID:    cfg.Discord.WebhookID,
			Token: cfg.Discord.WebhookToken,
		})
		if err != nil {
			logger.Warnf(ctx, "Failed to initialize Discord webhook: %v", err)
		} else {
			discordClient = d
			logger.Info(ctx, "Discord webhook initialized")
		}
	}

	// Postgres
	db, err := configPostgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to Postgres: %v", err)
		os.Exit(1)
	}
	defer configPostgre.Disconnect(ctx, db)
	logger.Info(ctx, "Postgres client initialized")

	// Redis - Pub/Sub for status channel events
	redisClient, err := configRedis.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	defer configRedis.Disconnect()
	logger.Info(ctx, "Redis client initialized")

	// MinIO - dataset object storage
	storage, err := configMinio.Connect(ctx, cfg.MinIO)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to MinIO: %v", err)
		os.Exit(1)
	}
	defer configMinio.Disconnect(ctx)
	if err := storage.EnsureBucket(ctx, cfg.MinIO.Bucket); err != nil {
		logger.Errorf(ctx, "Failed to ensure bucket %q: %v", cfg.MinIO.Bucket, err)
		os.Exit(1)
	}
	logger.Info(ctx, "MinIO client initialized")

	// Analysis engine client
	engineClient := engine.NewClient(logger, cfg.Engine)
	if err := engineClient.Health(ctx); err != nil {
		logger.Warnf(ctx, "Analysis engine not reachable yet: %v", err)
	}

	// Realtime status channel
	hub := notifier.NewHub(logger, cfg.WebSocket.MaxConnections)
	wsHandler := notifier.NewHandler(hub, logger, cfg.WebSocket)
	subscriber := notifierRedis.NewSubscriber(redisClient, hub, logger, cfg.WebSocket.EventPattern)
	publisher := notifierRedis.NewPublisher(redisClient, logger, cfg.WebSocket.EventPattern)

	// Domain wiring
	datasetRepo := datasetPostgres.New(logger, db)
	datasetUC := datasetUsecase.New(logger, datasetRepo, storage, cfg.MinIO.Bucket, cfg.Server.MaxUploadSize, engineClient, publisher)

	queryRepo := queryPostgres.New(logger, db)
	queryUC := queryUsecase.New(logger, queryRepo, datasetRepo, engineClient, publisher)

	srv, err := httpserver.New(logger, httpserver.Config{
		Port:       cfg.Server.Port,
		Mode:       cfg.Server.Mode,
		DatasetUC:  datasetUC,
		QueryUC:    queryUC,
		Hub:        hub,
		WSHandler:  wsHandler,
		Subscriber: subscriber,
		Redis:      redisClient,
		Storage:    storage,
		Engine:     engineClient,
		Discord:    discordClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to create HTTP server: %v", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Errorf(ctx, "HTTP server stopped with error: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "AIBI gateway stopped")
}
