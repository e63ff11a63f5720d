package models

import "time"

// Event is one decoded RPC call-log record. Events are ephemeral: they are
// constructed per parsed line and consumed immediately by the window
// aggregator; only their statistical contribution survives.
type Event struct {
	Time       time.Time
	SourceID   string // salted hash of the caller IP, never the raw address
	Method     string
	LatencyMS  float64
	StatusCode int
}

// IsError reports whether the call failed server-side.
func (e *Event) IsError() bool {
	return e.StatusCode >= 500
}
