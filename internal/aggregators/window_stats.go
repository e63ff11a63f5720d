package aggregators

import (
	"math"

	"rpc-sentinel/internal/models"

	"github.com/influxdata/tdigest"
)

const (
	latencyAlpha = 0.15
	errorAlpha   = 0.10

	p95Quantile = 0.95
)

// WindowStats accumulates one method's statistics inside the current tumbling
// window: call and error counts, a t-digest of latencies for the approximate
// p95, and EWMAs of latency and of the error indicator. Every Add updates all
// estimators exactly once, before any read.
type WindowStats struct {
	calls   int64
	errs    int64
	digest  *tdigest.TDigest
	latEWMA *EWMA
	errEWMA *EWMA
}

func NewWindowStats() *WindowStats {
	return &WindowStats{
		digest:  tdigest.New(),
		latEWMA: NewEWMA(latencyAlpha),
		errEWMA: NewEWMA(errorAlpha),
	}
}

// Add records one call observation.
func (w *WindowStats) Add(latencyMS float64, isErr bool) {
	w.calls++
	w.digest.Add(latencyMS, 1)
	w.latEWMA.Update(latencyMS)
	if isErr {
		w.errs++
		w.errEWMA.Update(1.0)
	} else {
		w.errEWMA.Update(0.0)
	}
}

// Snapshot returns the window's current view without mutating any state, so
// repeated calls return the same values.
func (w *WindowStats) Snapshot(method string) models.WindowSnapshot {
	p95 := 0.0
	if w.calls > 0 {
		p95 = w.digest.Quantile(p95Quantile)
	}
	errRate := float64(w.errs) / math.Max(1, float64(w.calls))
	return models.WindowSnapshot{
		Method:  method,
		Calls:   w.calls,
		Errors:  w.errs,
		P95:     p95,
		ErrRate: errRate,
		ZLat:    w.latEWMA.Z(p95),
		ZErr:    w.errEWMA.Z(errRate),
	}
}
