// Package main provides the entry point for the nutrimatch API server
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/container"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the configuration file")
	pflag.Parse()

	app := fx.New(
		fx.NopLogger,
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Either a signal or a fatal server error ends the run
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			defer os.Exit(sig.ExitCode)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}
}
