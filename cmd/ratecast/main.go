package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/common"
	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/server"
	"github.com/ratecast/ratecast/pkg/storage"
	"github.com/ratecast/ratecast/pkg/utility"
	"github.com/ratecast/ratecast/pkg/webhook"
)

func main() {
	// init packages
	u := utility.Configured()
	s := storage.Configured()
	n := webhook.Configured()

	// init server
	srv := server.Configured(u, s, n)

	// parse flags
	lflag.Configure()

	// lflag sets llog's level, slog needs to follow it
	level := log.Configure()
	slog.Debug("logger configured", slog.String("level", level.String()), slog.String("version", common.Version()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// if initialization inside lflag.Do failed we wouldn't be here
	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
		}
	}()

	if !n.Enabled() {
		log.Ctx(ctx).InfoContext(ctx, "webhook disabled")
	}

	// Run blocks until the context is canceled or the server fails
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
