package responders

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/classifiers"
	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/iphash"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
)

// ResponderOptions controls how far the responder goes on its own.
type ResponderOptions struct {
	// AutoBlock enables automated enforcement. Off, every alert becomes a
	// manual-review log line plus an audit entry.
	AutoBlock bool
	// MinConfidence is the floor below which classifications are ignored
	// entirely, no audit entry included.
	MinConfidence float64
	// DryRun logs the action that would have run without executing it.
	DryRun bool
}

//go:generate mockgen -source=response_service.go -destination=./mocks/response_service_mock.go -package=mocks

// ResponseService consumes published alerts and drives the automated
// response: classify, decide, enforce through the packet filter, audit.
type ResponseService interface {
	OnBusMessage(ctx context.Context, msg *buses.Message)
}

type responseService struct {
	classifier classifiers.AttackClassifier
	filter     PacketFilter
	audit      AuditLog
	opts       ResponderOptions
	logger     loggers.Logger
}

func NewResponseService(classifier classifiers.AttackClassifier, filter PacketFilter, audit AuditLog, opts ResponderOptions, logger loggers.Logger) ResponseService {
	return &responseService{
		classifier: classifier,
		filter:     filter,
		audit:      audit,
		opts:       opts,
		logger:     logger,
	}
}

// OnBusMessage handles one record from the diagnostics topic. Malformed
// alerts are dropped; processing failures never propagate to the bus loop.
func (s *responseService) OnBusMessage(ctx context.Context, msg *buses.Message) {
	var alert models.Alert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		s.logger.Warn().Err(err).Str(loggers.FieldTopic, msg.Topic).Msg("undecodable alert dropped")
		metricResponderAlertsTotal.WithLabelValues("undecodable").Inc()
		return
	}

	classification := s.classifier.Classify(classifiers.ObservationFromAlert(&alert))
	metricResponderAlertsTotal.WithLabelValues(string(classification.Type)).Inc()

	if classification.Confidence < s.opts.MinConfidence {
		return
	}

	s.logger.Info().
		Str("attack_type", string(classification.Type)).
		Str("severity", string(classification.Severity)).
		Float64("confidence", classification.Confidence).
		Str(loggers.FieldMethod, alert.Method).
		Strs("indicators", classification.Indicators).
		Msg("attack classified")

	if s.opts.AutoBlock && classifiers.ShouldAutoBlock(classification, s.opts.MinConfidence) {
		s.executeResponse(ctx, classification, &alert)
	} else {
		s.logger.Info().
			Bool("auto_block", s.opts.AutoBlock).
			Str("recommended_action", string(classification.RecommendedAction)).
			Msg("manual review required")
	}

	s.logAction(ctx, classification, &alert)
}

func (s *responseService) executeResponse(ctx context.Context, classification *models.Classification, alert *models.Alert) {
	action := classification.RecommendedAction
	metricResponderActionsTotal.WithLabelValues(string(action)).Inc()

	if s.opts.DryRun {
		s.logger.Info().Str("action", string(action)).Msg("dry run, action skipped")
		return
	}

	switch action {
	case models.ActionBlockImmediately:
		s.blockSample(ctx, alert, string(models.AttackDDoS))
	case models.ActionRateLimitHeavyMethods:
		s.logger.Info().Str(loggers.FieldMethod, alert.Method).Msg("rate limiting heavy method")
	case models.ActionBlockTemporary:
		s.blockSample(ctx, alert, string(models.AttackScanning))
	case models.ActionBlockAndAlert:
		s.blockSample(ctx, alert, string(models.AttackCredentialStuffing))
		s.logger.Warn().
			Str("attack_type", string(classification.Type)).
			Str("severity", string(classification.Severity)).
			Msg("security team notification required")
	case models.ActionRateLimit:
		s.logger.Info().Msg("applying rate limits")
	default:
		s.logger.Info().Msg("monitoring only")
	}
}

// blockSample blocks the alert's sampled source. Alerts with no sample have
// nothing to enforce against.
func (s *responseService) blockSample(ctx context.Context, alert *models.Alert, reason string) {
	if alert.Sample == nil || *alert.Sample == "" {
		s.logger.Info().Msg("no sampled source to block")
		return
	}

	sourceID := strings.TrimPrefix(*alert.Sample, iphash.Prefix)
	if err := s.filter.Block(ctx, sourceID, reason); err != nil {
		s.logger.Error().Err(err).Str("source_id", sourceID).Msg("block failed")
		metricResponderBlocksTotal.WithLabelValues(codeBlockFailed).Inc()
		return
	}
	metricResponderBlocksTotal.WithLabelValues(metrics.ValueNoError).Inc()
}

func (s *responseService) logAction(ctx context.Context, classification *models.Classification, alert *models.Alert) {
	entry := &AuditEntry{
		Timestamp:      time.Now().Unix(),
		Classification: classification,
		Alert: AuditAlert{
			Method:  alert.Method,
			Region:  alert.Region,
			ASN:     alert.ASN,
			Metrics: alert.Metrics,
			Z:       alert.Z,
		},
		AutoBlock: s.opts.AutoBlock,
		DryRun:    s.opts.DryRun,
	}
	if svcErr := s.audit.Append(ctx, entry); svcErr != nil {
		s.logger.Error().Err(svcErr).Msg("audit append failed")
	}
}
