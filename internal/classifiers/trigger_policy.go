package classifiers

import (
	"rpc-sentinel/internal/models"
)

// TriggerThresholds holds the four independent alert thresholds. All four
// default to the shared z baseline but each may be overridden on its own.
type TriggerThresholds struct {
	ZLat    float64
	ZErr    float64
	P95     float64
	ErrRate float64
}

//go:generate mockgen -source=trigger_policy.go -destination=./mocks/trigger_policy_mock.go -package=mocks
type TriggerPolicy interface {
	// ShouldAlert reports whether a flushed window is alert-worthy. The
	// four conditions are a disjunction: any single breach triggers.
	ShouldAlert(snapshot *models.WindowSnapshot) bool
}

type triggerPolicy struct {
	thresholds TriggerThresholds
}

func NewTriggerPolicy(thresholds TriggerThresholds) TriggerPolicy {
	return &triggerPolicy{thresholds: thresholds}
}

func (p *triggerPolicy) ShouldAlert(snapshot *models.WindowSnapshot) bool {
	return snapshot.ZLat >= p.thresholds.ZLat ||
		snapshot.ZErr >= p.thresholds.ZErr ||
		snapshot.P95 >= p.thresholds.P95 ||
		snapshot.ErrRate >= p.thresholds.ErrRate
}
