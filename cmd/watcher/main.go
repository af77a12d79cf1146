// Command watcher uploads a dataset, waits on the realtime status channel for
// processing to complete, then asks a question against it. The handoff from
// upload to query is driven entirely by channel events, no polling and no
// fixed delays.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aibi-gateway/internal/model"
	"aibi-gateway/internal/notifier"
	"aibi-gateway/pkg/channel"
	"aibi-gateway/pkg/client"
	"aibi-gateway/pkg/log"
)

func main() {
	var (
		addr     = flag.String("addr", "http://localhost:8000", "gateway base URL")
		userID   = flag.String("user", "", "user id, empty for the default user")
		filePath = flag.String("file", "", "dataset file to upload (CSV or Excel)")
		question = flag.String("question", "", "question to ask once the dataset is ready")
		timeout  = flag.Duration("timeout", 5*time.Minute, "how long to wait for processing and the answer")
	)
	flag.Parse()

	if *filePath == "" || *question == "" {
		fmt.Fprintln(os.Stderr, "usage: watcher -file <dataset> -question <question> [-addr URL] [-user ID]")
		os.Exit(2)
	}

	logger := log.Init(log.ZapConfig{
		Level:    log.LevelInfo,
		Mode:     log.ModeDevelopment,
		Encoding: log.EncodingConsole,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, logger, *addr, *userID, *filePath, *question); err != nil {
		logger.Errorf(ctx, "watcher: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger log.Logger, addr, userID, filePath, question string) error {
	rest := client.New(addr, userID)
	if err := rest.Health(ctx); err != nil {
		return fmt.Errorf("gateway not reachable at %s: %w", addr, err)
	}

	host, err := wsHost(addr)
	if err != nil {
		return err
	}

	// Subscribe before uploading so no processing event can slip past.
	events := make(chan channel.Notification, 64)
	ch := channel.New(channel.Config{Host: host}, logger, channel.Callbacks{
		OnMessage: func(n channel.Notification) {
			select {
			case events <- n:
			default:
			}
		},
		OnError: func(err error) {
			logger.Warnf(ctx, "status channel: %v", err)
		},
	})
	ch.Connect(userID)
	defer ch.Disconnect()

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := rest.UploadDataset(ctx, filepath.Base(filePath), f)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	logger.Infof(ctx, "uploaded dataset %s (%s), waiting for processing", ds.ID, ds.Name)

	if err := waitForReady(ctx, events, ds.ID, logger); err != nil {
		return err
	}

	logger.Infof(ctx, "dataset ready, asking: %s", question)
	q, err := rest.Ask(ctx, ds.ID, question)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if q.Answer != nil {
		fmt.Println(*q.Answer)
	}
	if q.SQLQuery != nil {
		fmt.Println("sql:", *q.SQLQuery)
	}
	return nil
}

// waitForReady consumes channel events until the dataset reaches a terminal
// processing status.
func waitForReady(ctx context.Context, events <-chan channel.Notification, datasetID string, logger log.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for dataset %s: %w", datasetID, ctx.Err())
		case n := <-events:
			if n.Type != string(notifier.MessageTypeDataProcessingUpdate) {
				continue
			}

			var msg notifier.Message
			if err := n.Decode(&msg); err != nil {
				logger.Warnf(ctx, "bad processing update: %v", err)
				continue
			}
			var p notifier.ProcessingUpdatePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				logger.Warnf(ctx, "bad processing update payload: %v", err)
				continue
			}
			if p.DatasetID != datasetID {
				continue
			}

			switch p.Status {
			case model.DatasetStatusReady:
				return nil
			case model.DatasetStatusFailed:
				return fmt.Errorf("processing failed: %s", p.Error)
			default:
				logger.Infof(ctx, "dataset %s: %s", p.DatasetID, p.Status)
			}
		}
	}
}

// wsHost extracts the host:port the status channel should dial.
func wsHost(addr string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid gateway address %q", addr)
	}
	return u.Host, nil
}
