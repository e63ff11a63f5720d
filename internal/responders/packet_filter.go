package responders

import (
	"context"

	"rpc-sentinel/internal/shared/loggers"
)

//go:generate mockgen -source=packet_filter.go -destination=./mocks/packet_filter_mock.go -package=mocks

// PacketFilter is the enforcement capability behind automated responses.
// Implementations map blocks onto whatever the host provides (nftables,
// cloud firewall, upstream rate limiter). Addresses are hashed source ids,
// never raw IPs.
type PacketFilter interface {
	Block(ctx context.Context, sourceID, reason string) error
	Unblock(ctx context.Context, sourceID string) error
	List(ctx context.Context) ([]string, error)
}

// loggingPacketFilter records intended enforcement without touching the
// host. Used when no real filter backend is configured and in dry-run
// deployments.
type loggingPacketFilter struct {
	logger  loggers.Logger
	blocked map[string]string
}

func NewLoggingPacketFilter(logger loggers.Logger) PacketFilter {
	return &loggingPacketFilter{
		logger:  logger,
		blocked: make(map[string]string),
	}
}

func (f *loggingPacketFilter) Block(_ context.Context, sourceID, reason string) error {
	f.blocked[sourceID] = reason
	f.logger.Info().
		Str("source_id", sourceID).
		Str("reason", reason).
		Msg("block recorded (no filter backend)")
	return nil
}

func (f *loggingPacketFilter) Unblock(_ context.Context, sourceID string) error {
	delete(f.blocked, sourceID)
	f.logger.Info().Str("source_id", sourceID).Msg("unblock recorded (no filter backend)")
	return nil
}

func (f *loggingPacketFilter) List(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.blocked))
	for id := range f.blocked {
		ids = append(ids, id)
	}
	return ids, nil
}
