package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/monitors"
	"rpc-sentinel/internal/ops"
	"rpc-sentinel/internal/shared/configs"
	"rpc-sentinel/internal/shared/loggers"
)

// Monitor is the console binary: subscribe to the whole sentinel topic space
// and render the live stream, flagged traffic highlighted.
type Monitor struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	bus buses.BusClient

	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// NewMonitor creates and initializes the monitor.
func NewMonitor(config *configs.Config) (*Monitor, error) {
	appLogger, err := newAppLogger(config, "rpc-sentinel-monitor")
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

	monitorLogger := appLogger.With().Str(loggers.FieldComponent, "monitor").Logger()
	monitorService := monitors.NewMonitorService(
		monitors.MonitorThresholds{
			ZLat:    config.Agent.Thresholds.EffectiveZLat(),
			ZErr:    config.Agent.Thresholds.EffectiveZErr(),
			P95:     config.Agent.Thresholds.P95,
			ErrRate: config.Agent.Thresholds.ErrRate,
		},
		monitors.MonitorOptions{
			Color:   config.Monitor.Color,
			Verbose: config.Monitor.Verbose,
		},
		os.Stdout,
		monitorLogger,
	)
	bus.Subscribe(buses.PatternAll, monitorService.OnBusMessage)

	opsLogger := appLogger.With().Str(loggers.FieldComponent, "ops").Logger()
	health := ops.NewHealthHandler(func() string { return bus.State().String() })
	server := ops.NewServer(config.Ops.Port, ops.NewRouter(health, opsLogger))

	return &Monitor{
		config:    config,
		appLogger: appLogger,
		server:    server,
		bus:       bus,
	}, nil
}

// Start runs the bus loop and blocks serving the ops surface.
func (monitor *Monitor) Start() error {
	monitor.appLogger.Info().
		Msgf("Starting monitor (verbose=%t, ops_port=%d)",
			monitor.config.Monitor.Verbose,
			monitor.config.Ops.Port)

	monitor.backgroundCtx, monitor.backgroundCancel = context.WithCancel(context.Background())
	go monitor.bus.Run(monitor.backgroundCtx)

	return monitor.server.ListenAndServe()
}

// Shutdown gracefully stops the monitor.
func (monitor *Monitor) Shutdown(ctx context.Context) error {
	monitor.appLogger.Info().Msg("Shutting down monitor...")
	if err := monitor.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown failed: %w", err)
	}

	if monitor.backgroundCancel != nil {
		monitor.backgroundCancel()
	}

	monitor.appLogger.Info().Msg("Monitor stopped")
	return nil
}
