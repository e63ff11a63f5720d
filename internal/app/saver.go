package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/ops"
	"rpc-sentinel/internal/shared/configs"
	"rpc-sentinel/internal/shared/loggers"
)

// Saver is the persistence binary: subscribe to the whole sentinel topic
// space, route records into the normal or flagged stream, keep retention.
type Saver struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	bus   buses.BusClient
	stack *saverStack

	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// NewSaver creates and initializes the saver.
func NewSaver(config *configs.Config) (*Saver, error) {
	appLogger, err := newAppLogger(config, "rpc-sentinel-saver")
	if err != nil {
		return nil, err
	}

	busLogger := appLogger.With().Str(loggers.FieldComponent, "bus").Logger()
	bus, err := buses.NewBusClient(
		config.Bus.BrokerURL,
		time.Duration(config.Bus.ReconnectBackoffSecs)*time.Second,
		busLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bus client: %w", err)
	}

	stack := newSaverStack(config, appLogger)
	bus.Subscribe(buses.PatternAll, stack.service.OnBusMessage)

	opsLogger := appLogger.With().Str(loggers.FieldComponent, "ops").Logger()
	health := ops.NewHealthHandler(func() string { return bus.State().String() })
	server := ops.NewServer(config.Ops.Port, ops.NewRouter(health, opsLogger))

	return &Saver{
		config:    config,
		appLogger: appLogger,
		server:    server,
		bus:       bus,
		stack:     stack,
	}, nil
}

// Start runs the background loops and blocks serving the ops surface.
func (saver *Saver) Start() error {
	saver.appLogger.Info().
		Msgf("Starting saver (normal_dir=%s, flagged_dir=%s, ops_port=%d)",
			saver.config.Saver.Normal.Dir,
			saver.config.Saver.Flagged.Dir,
			saver.config.Ops.Port)

	saver.backgroundCtx, saver.backgroundCancel = context.WithCancel(context.Background())

	saver.stack.consumer.Start(saver.backgroundCtx)
	for _, sweeper := range saver.stack.sweepers {
		go sweeper.Run(saver.backgroundCtx)
	}
	go saver.bus.Run(saver.backgroundCtx)

	return saver.server.ListenAndServe()
}

// Shutdown gracefully stops the saver.
func (saver *Saver) Shutdown(ctx context.Context) error {
	saver.appLogger.Info().Msg("Shutting down saver...")
	if err := saver.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown failed: %w", err)
	}

	if saver.backgroundCancel != nil {
		saver.backgroundCancel()
	}
	saver.stack.consumer.Stop()
	saver.stack.service.Close()

	saver.appLogger.Info().Msg("Saver stopped")
	return nil
}
