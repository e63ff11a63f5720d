package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rpc-sentinel/internal/aggregators"
	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/classifiers"
	"rpc-sentinel/internal/ops"
	"rpc-sentinel/internal/parsers"
	"rpc-sentinel/internal/pipelines"
	"rpc-sentinel/internal/shared/configs"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/tailers"
)

// Agent is the tail-and-classify binary: follow the call log, aggregate
// tumbling windows, publish alerts and heartbeats, serve the ops surface.
// With embed_saver it also runs the persistence side in-process.
type Agent struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	bus      buses.BusClient
	pipeline pipelines.PipelineService
	saver    *saverStack

	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// NewAgent creates and initializes the agent.
func NewAgent(config *configs.Config) (*Agent, error) {
	appLogger, err := newAppLogger(config, "rpc-sentinel-agent")
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

	bus.OnConnect(buses.NewHeartbeatTask(
		config.Agent.Region,
		config.Agent.ASN,
		time.Duration(config.Bus.HeartbeatSecs)*time.Second,
		busLogger,
	))

	// Alert path: trigger policy feeding the diagnostics topic.
	thresholds := classifiers.TriggerThresholds{
		ZLat:    config.Agent.Thresholds.EffectiveZLat(),
		ZErr:    config.Agent.Thresholds.EffectiveZErr(),
		P95:     config.Agent.Thresholds.P95,
		ErrRate: config.Agent.Thresholds.ErrRate,
	}
	alertLogger := appLogger.With().Str(loggers.FieldComponent, "alerts").Logger()
	alertService := classifiers.NewAlertService(
		classifiers.NewTriggerPolicy(thresholds),
		bus,
		config.Agent.Region,
		config.Agent.ASN,
		int64(config.Agent.WindowMS),
		alertLogger,
	)

	aggregator := aggregators.NewWindowAggregator(
		time.Duration(config.Agent.WindowMS)*time.Millisecond,
		alertService,
	)

	pipelineLogger := appLogger.With().Str(loggers.FieldComponent, "pipeline").Logger()
	pipeline := pipelines.NewPipelineService(
		tailers.NewLogTailer(pipelineLogger),
		parsers.NewEventParser(config.Agent.Salt),
		aggregator,
		config.Agent.LogPath,
		pipelineLogger,
	)

	var saver *saverStack
	if config.Agent.EmbedSaver {
		saver = newSaverStack(config, appLogger)
		bus.Subscribe(buses.PatternAll, saver.service.OnBusMessage)
	}

	opsLogger := appLogger.With().Str(loggers.FieldComponent, "ops").Logger()
	health := ops.NewHealthHandler(func() string { return bus.State().String() })
	server := ops.NewServer(config.Ops.Port, ops.NewRouter(health, opsLogger))

	return &Agent{
		config:    config,
		appLogger: appLogger,
		server:    server,
		bus:       bus,
		pipeline:  pipeline,
		saver:     saver,
	}, nil
}

// Start runs the background loops and blocks serving the ops surface.
func (agent *Agent) Start() error {
	agent.appLogger.Info().
		Msgf("Starting agent (log_path=%s, window_ms=%d, ops_port=%d, embed_saver=%t)",
			agent.config.Agent.LogPath,
			agent.config.Agent.WindowMS,
			agent.config.Ops.Port,
			agent.config.Agent.EmbedSaver)

	agent.backgroundCtx, agent.backgroundCancel = context.WithCancel(context.Background())

	if agent.saver != nil {
		agent.saver.consumer.Start(agent.backgroundCtx)
		for _, sweeper := range agent.saver.sweepers {
			go sweeper.Run(agent.backgroundCtx)
		}
	}

	go agent.bus.Run(agent.backgroundCtx)
	go agent.pipeline.Run(agent.backgroundCtx)

	return agent.server.ListenAndServe()
}

// Shutdown gracefully stops the agent.
func (agent *Agent) Shutdown(ctx context.Context) error {
	agent.appLogger.Info().Msg("Shutting down agent...")
	if err := agent.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown failed: %w", err)
	}

	if agent.backgroundCancel != nil {
		agent.backgroundCancel()
	}
	if agent.saver != nil {
		agent.saver.consumer.Stop()
		agent.saver.service.Close()
	}

	agent.appLogger.Info().Msg("Agent stopped")
	return nil
}
