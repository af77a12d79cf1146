package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Run starts the HTTP server and background services, then blocks until a
// shutdown signal arrives:
//  1. Map HTTP handlers and routes
//  2. Start the hub and the Redis subscriber
//  3. Serve HTTP
//  4. Wait for SIGINT/SIGTERM, then drain
func (srv *HTTPServer) Run() error {
	ctx := context.Background()

	if err := srv.mapHandlers(); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.mapHandlers: %v", err)
		return err
	}

	go srv.hub.Run()
	srv.l.Info(ctx, "notifier hub started")

	if err := srv.subscriber.Start(); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.Subscriber: %v", err)
		return err
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srv.l.Errorf(ctx, "internal.httpserver.Run.ListenAndServe: %v", err)
		}
	}()
	srv.l.Infof(ctx, "HTTP server started on port %d", srv.port)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	srv.l.Infof(ctx, "received %s, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.Shutdown: %v", err)
	}
	if err := srv.subscriber.Shutdown(shutdownCtx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.SubscriberShutdown: %v", err)
	}
	if err := srv.hub.Shutdown(shutdownCtx); err != nil {
		srv.l.Errorf(ctx, "internal.httpserver.Run.HubShutdown: %v", err)
	}

	return nil
}
