package models

// AlertMetrics carries the window measurements of an alert.
type AlertMetrics struct {
	P95     float64 `json:"p95"`
	ErrRate float64 `json:"err_rate"`
}

// AlertZScores carries the EWMA z-scores of an alert.
type AlertZScores struct {
	Lat float64 `json:"lat"`
	Err float64 `json:"err"`
}

// Alert is the wire record published on the diagnostics topic when a window
// trips the trigger policy. Immutable once constructed; published once per
// triggering method per flush tick.
type Alert struct {
	TS       int64        `json:"ts"`
	WindowMS int64        `json:"window_ms"`
	Region   string       `json:"region"`
	ASN      int          `json:"asn"`
	Method   string       `json:"method"`
	Metrics  AlertMetrics `json:"metrics"`
	Z        AlertZScores `json:"z"`
	// Sample is a hashed source address from the window, nil when the
	// triggering line carried no address.
	Sample *string `json:"sample"`
}

// Heartbeat is the liveness record published on the health topic.
type Heartbeat struct {
	TS     int64  `json:"ts"`
	Region string `json:"region"`
	ASN    int    `json:"asn"`
	Status string `json:"status"`
}

const HeartbeatStatusOK = "ok"
