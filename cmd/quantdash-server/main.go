package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/quantdash/internal/app"
	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/server"
)

func main() {
	a, err := app.NewApp(os.Getenv("QUANTDASH_CONFIG"))
	if err != nil {
		os.Stderr.WriteString("Failed to initialize app: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := a.StartScheduler(); err != nil {
		a.Logger.Warn().Err(err).Msg("Cache sweep disabled")
	}

	srv := server.NewServer(a)

	common.PrintBanner(os.Stdout, a.Config, a.Logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	common.PrintShutdownBanner(os.Stdout, a.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	a.Logger.Info().Msg("Server stopped")
}
