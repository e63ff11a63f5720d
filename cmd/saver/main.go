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
	saver, err := app.NewSaver(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize saver: %v\n", err)
		os.Exit(1)
	}

	go func() {
		if err := saver.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Saver failed: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("Saver started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := saver.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Saver forced to shutdown: %v\n", err)
	}
}
