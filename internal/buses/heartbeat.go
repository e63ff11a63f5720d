package buses

import (
	"context"
	"encoding/json"
	"time"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/loggers"
)

// NewHeartbeatTask returns a connected task that publishes a liveness record
// on the health topic at a fixed interval. The task runs per connection and
// is cancelled with it, so a heartbeat never goes out on a stale handle.
func NewHeartbeatTask(region string, asn int, interval time.Duration, logger loggers.Logger) ConnectedTask {
	return func(ctx context.Context, pub Publisher) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			heartbeat := models.Heartbeat{
				TS:     time.Now().Unix(),
				Region: region,
				ASN:    asn,
				Status: models.HeartbeatStatusOK,
			}
			payload, err := json.Marshal(heartbeat)
			if err != nil {
				logger.Error().Err(err).Msg("heartbeat marshal failed")
				continue
			}
			if svcErr := pub.Publish(ctx, TopicHealth, payload); svcErr != nil {
				logger.Warn().Err(svcErr).Msg("heartbeat publish failed")
				continue
			}
			metricBusHeartbeatsTotal.Inc()
		}
	}
}
