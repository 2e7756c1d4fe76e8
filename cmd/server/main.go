package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/minesweeper-games/internal/app"
	"github.com/vancomm/minesweeper-games/internal/config"
)

func main() {
	logger := config.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger).Start(ctx); err != nil {
		logger.Error("failed to start app", slog.Any("error", err))
		os.Exit(1)
	}
}
