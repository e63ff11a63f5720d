package savers

import (
	"strings"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/models"
)

const (
	// StreamNormal holds routine bus traffic (heartbeats, clean windows).
	StreamNormal = "normal"
	// StreamFlagged holds alerts and records whose z-scores cross the
	// anomaly baseline. Flagged files feed downstream consumers and are
	// kept on a separate rotation and retention schedule.
	StreamFlagged = "flagged"
)

//go:generate mockgen -source=record_router.go -destination=./mocks/record_router_mock.go -package=mocks

// RecordRouter decides which stream a record belongs to.
type RecordRouter interface {
	Route(record *models.BusRecord) string
}

type recordRouter struct {
	zLat float64
	zErr float64
}

// NewRecordRouter creates a router flagging alert-topic records and any
// record whose latency or error z-score reaches its axis threshold.
func NewRecordRouter(zLat, zErr float64) RecordRouter {
	return &recordRouter{zLat: zLat, zErr: zErr}
}

func (r *recordRouter) Route(record *models.BusRecord) string {
	if strings.HasPrefix(record.Topic, buses.TopicAlertPrefix) {
		return StreamFlagged
	}
	if record.ZLat >= r.zLat || record.ZErr >= r.zErr {
		return StreamFlagged
	}
	return StreamNormal
}
