package app

import (
	"fmt"
	"time"

	"rpc-sentinel/internal/savers"
	"rpc-sentinel/internal/shared/configs"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/sinks"
	"rpc-sentinel/internal/streams"
)

// newAppLogger builds the root logger for one binary.
func newAppLogger(config *configs.Config, appName string) (loggers.Logger, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return appLogger, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return appLogger.With().Str(loggers.FieldApp, appName).Logger(), nil
}

// saverStack bundles the persistence components shared by the saver binary
// and the agent's embedded saver.
type saverStack struct {
	service  savers.SaverService
	consumer streams.RecordConsumer
	sweepers []sinks.RetentionSweeper
}

// newSaverStack wires router, queue, writers, and sweepers from config.
func newSaverStack(config *configs.Config, appLogger loggers.Logger) *saverStack {
	sinkLogger := appLogger.With().Str(loggers.FieldComponent, "sink").Logger()

	normalWriter := sinks.NewRotatingWriter(
		config.Saver.Normal.Dir,
		time.Duration(config.Saver.Normal.RotateSecs)*time.Second,
		sinks.CalendarNaming("log", ".jsonl"),
		savers.StreamNormal,
		sinkLogger,
	)
	flaggedWriter := sinks.NewRotatingWriter(
		config.Saver.Flagged.Dir,
		time.Duration(config.Saver.Flagged.RotateSecs)*time.Second,
		sinks.EpochNaming("flagged", ".jsonl"),
		savers.StreamFlagged,
		sinkLogger,
	)
	writers := map[string]sinks.RotatingWriter{
		savers.StreamNormal:  normalWriter,
		savers.StreamFlagged: flaggedWriter,
	}

	queue := streams.NewRecordQueue()
	router := savers.NewRecordRouter(
		config.Agent.Thresholds.EffectiveZLat(),
		config.Agent.Thresholds.EffectiveZErr(),
	)
	saverLogger := appLogger.With().Str(loggers.FieldComponent, "saver").Logger()
	service := savers.NewSaverService(router, streams.NewRecordProducer(queue), writers, saverLogger)
	consumer := streams.NewRecordConsumer(queue, service, saverLogger)

	sweepInterval := time.Duration(config.Saver.SweepIntervalSecs) * time.Second
	sweepers := []sinks.RetentionSweeper{
		sinks.NewRetentionSweeper(
			config.Saver.Normal.Dir, ".jsonl",
			time.Duration(config.Saver.Normal.TTLMins)*time.Minute,
			sweepInterval, normalWriter.CurrentPath, savers.StreamNormal, sinkLogger,
		),
		sinks.NewRetentionSweeper(
			config.Saver.Flagged.Dir, ".jsonl",
			time.Duration(config.Saver.Flagged.TTLMins)*time.Minute,
			sweepInterval, flaggedWriter.CurrentPath, savers.StreamFlagged, sinkLogger,
		),
	}

	return &saverStack{service: service, consumer: consumer, sweepers: sweepers}
}
