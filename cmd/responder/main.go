package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rpc-sentinel/internal/app"
	"rpc-sentinel/internal/shared/configs"
)

func main() {
	// Load configuration
	cfg, err := configs.LoadConfig("./configs/configs.yml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize application
	responder, err := app.NewResponder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize responder: %v\n", err)
		os.Exit(1)
	}

	go func() {
		if err := responder.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Responder failed: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("Responder started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := responder.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Responder forced to shutdown: %v\n", err)
	}
}
