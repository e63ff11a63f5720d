package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/classifiers"
	"rpc-sentinel/internal/ops"
	"rpc-sentinel/internal/responders"
	"rpc-sentinel/internal/shared/configs"
	"rpc-sentinel/internal/shared/loggers"
)

// Responder is the automated response binary: consume alerts, classify,
// enforce through the packet filter, audit every decision.
type Responder struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	bus buses.BusClient

	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// NewResponder creates and initializes the responder.
func NewResponder(config *configs.Config) (*Responder, error) {
	appLogger, err := newAppLogger(config, "rpc-sentinel-responder")
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

	responderLogger := appLogger.With().Str(loggers.FieldComponent, "responder").Logger()
	responseService := responders.NewResponseService(
		classifiers.NewAttackClassifier(config.Agent.HeavyMethods),
		responders.NewLoggingPacketFilter(responderLogger),
		responders.NewFileAuditLog(config.Responder.ActionsLog),
		responders.ResponderOptions{
			AutoBlock:     config.Responder.AutoBlock,
			MinConfidence: config.Responder.MinConfidence,
			DryRun:        config.Responder.DryRun,
		},
		responderLogger,
	)
	bus.Subscribe(buses.TopicDiag, responseService.OnBusMessage)

	opsLogger := appLogger.With().Str(loggers.FieldComponent, "ops").Logger()
	health := ops.NewHealthHandler(func() string { return bus.State().String() })
	server := ops.NewServer(config.Ops.Port, ops.NewRouter(health, opsLogger))

	return &Responder{
		config:    config,
		appLogger: appLogger,
		server:    server,
		bus:       bus,
	}, nil
}

// Start runs the bus loop and blocks serving the ops surface.
func (responder *Responder) Start() error {
	responder.appLogger.Info().
		Msgf("Starting responder (auto_block=%t, min_confidence=%.2f, dry_run=%t, ops_port=%d)",
			responder.config.Responder.AutoBlock,
			responder.config.Responder.MinConfidence,
			responder.config.Responder.DryRun,
			responder.config.Ops.Port)

	responder.backgroundCtx, responder.backgroundCancel = context.WithCancel(context.Background())
	go responder.bus.Run(responder.backgroundCtx)

	return responder.server.ListenAndServe()
}

// Shutdown gracefully stops the responder.
func (responder *Responder) Shutdown(ctx context.Context) error {
	responder.appLogger.Info().Msg("Shutting down responder...")
	if err := responder.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown failed: %w", err)
	}

	if responder.backgroundCancel != nil {
		responder.backgroundCancel()
	}

	responder.appLogger.Info().Msg("Responder stopped")
	return nil
}
