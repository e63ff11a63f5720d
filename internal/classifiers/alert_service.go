package classifiers

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
)

//go:generate mockgen -source=alert_service.go -destination=./mocks/alert_service_mock.go -package=mocks

// AlertService turns flushed window snapshots into published alerts. One
// alert per triggering method per flush tick; quiet windows produce nothing.
type AlertService interface {
	HandleSnapshot(ctx context.Context, snapshot *models.WindowSnapshot) *svcerrors.ServiceError
}

type alertService struct {
	policy    TriggerPolicy
	publisher buses.Publisher
	region    string
	asn       int
	windowMS  int64
	logger    loggers.Logger
}

func NewAlertService(policy TriggerPolicy, publisher buses.Publisher, region string, asn int, windowMS int64, logger loggers.Logger) AlertService {
	return &alertService{
		policy:    policy,
		publisher: publisher,
		region:    region,
		asn:       asn,
		windowMS:  windowMS,
		logger:    logger,
	}
}

func (s *alertService) HandleSnapshot(ctx context.Context, snapshot *models.WindowSnapshot) *svcerrors.ServiceError {
	if !s.policy.ShouldAlert(snapshot) {
		return nil
	}

	alert := s.buildAlert(snapshot)
	payload, err := json.Marshal(alert)
	if err != nil {
		svcErr := errAlertEncodeFailed(err)
		metricAlertsPublishedTotal.WithLabelValues(svcErr.Code).Inc()
		return svcErr
	}

	if svcErr := s.publisher.Publish(ctx, buses.TopicDiag, payload); svcErr != nil {
		metricAlertsPublishedTotal.WithLabelValues(svcErr.Code).Inc()
		return svcErr
	}

	metricAlertsPublishedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	s.logger.Info().
		Str(loggers.FieldMethod, snapshot.Method).
		Float64("p95", alert.Metrics.P95).
		Float64("err_rate", alert.Metrics.ErrRate).
		Msg("alert published")
	return nil
}

func (s *alertService) buildAlert(snapshot *models.WindowSnapshot) *models.Alert {
	alert := &models.Alert{
		TS:       time.Now().Unix(),
		WindowMS: s.windowMS,
		Region:   s.region,
		ASN:      s.asn,
		Method:   snapshot.Method,
		Metrics: models.AlertMetrics{
			P95:     roundTo(snapshot.P95, 2),
			ErrRate: roundTo(snapshot.ErrRate, 4),
		},
		Z: models.AlertZScores{
			Lat: roundTo(snapshot.ZLat, 2),
			Err: roundTo(snapshot.ZErr, 2),
		},
	}
	if snapshot.Sample != "" {
		sample := snapshot.Sample
		alert.Sample = &sample
	}
	return alert
}

func roundTo(x float64, digits int) float64 {
	scale := math.Pow10(digits)
	return math.Round(x*scale) / scale
}
