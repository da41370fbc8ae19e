// Command echobot is a minimal Scatter bot: it subscribes to a channel,
// echoes every "!ping" message, and serves client metrics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	scatter "github.com/starforge/scatter-go"
	"github.com/starforge/scatter-go/config"
	"github.com/starforge/scatter-go/internal/version"
	"github.com/starforge/scatter-go/model"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: environment)")
	channelID := flag.String("channel", "", "channel id to subscribe to")
	metricsAddr := flag.String("metrics", ":9090", "metrics listen address (empty to disable)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting echobot", "version", version.Version, "commit", version.Commit)

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client, err := scatter.New(cfg, scatter.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", client.Metrics().Handler())
			logger.Info("serving metrics", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	client.Listen("ready", func(ctx context.Context, ev any) error {
		logger.Info("bot ready", "user_id", client.UserID())
		if *channelID != "" {
			return client.SubscribeChannel(*channelID)
		}
		return nil
	})

	if err := client.Handle("message", func(ctx context.Context, ev any) error {
		msg, ok := ev.(*model.Message)
		if !ok || msg.Author.ID == client.UserID() {
			return nil
		}
		if msg.Content != "!ping" {
			return nil
		}

		ts := client.Typing(msg.ChannelID)
		defer ts.Release()

		_, err := client.Reply(ctx, msg.SpaceID, msg.ChannelID, msg.ID, "Pong!")
		return err
	}); err != nil {
		logger.Error("failed to register handler", "error", err)
		os.Exit(1)
	}

	if err := client.Run(ctx); err != nil {
		logger.Error("client terminated", "error", err)
		os.Exit(1)
	}

	logger.Info("echobot stopped")
}
