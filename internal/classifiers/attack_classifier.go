package classifiers

import (
	"fmt"
	"strings"

	"rpc-sentinel/internal/models"
)

// Observation is the summarized traffic view a classification is made from.
// Fields absent from the source record keep their zero values: an alert
// without a volume simply never matches the volume rules.
type Observation struct {
	Method  string
	Volume  int64
	ErrRate float64
	P95     float64
	ZLat    float64
	ZErr    float64
}

// ObservationFromAlert converts a published alert into a classifiable
// observation. Alerts carry no volume on the wire, so Volume stays 0.
func ObservationFromAlert(alert *models.Alert) *Observation {
	return &Observation{
		Method:  alert.Method,
		ErrRate: alert.Metrics.ErrRate,
		P95:     alert.Metrics.P95,
		ZLat:    alert.Z.Lat,
		ZErr:    alert.Z.Err,
	}
}

//go:generate mockgen -source=attack_classifier.go -destination=./mocks/attack_classifier_mock.go -package=mocks
type AttackClassifier interface {
	// Classify evaluates the rule table top to bottom; the first matching
	// rule wins.
	Classify(obs *Observation) *models.Classification
}

type attackClassifier struct {
	heavyMethods map[string]struct{}
}

func NewAttackClassifier(heavyMethods []string) AttackClassifier {
	set := make(map[string]struct{}, len(heavyMethods))
	for _, m := range heavyMethods {
		set[m] = struct{}{}
	}
	return &attackClassifier{heavyMethods: set}
}

func (c *attackClassifier) Classify(obs *Observation) *models.Classification {
	// High volume with a mostly-normal error rate.
	if obs.Volume > 1000 && obs.ErrRate < 0.15 {
		severity := models.SeverityHigh
		if obs.Volume >= 5000 {
			severity = models.SeverityCritical
		}
		return &models.Classification{
			Type:              models.AttackDDoS,
			Severity:          severity,
			Confidence:        0.90,
			RecommendedAction: models.ActionBlockImmediately,
			Indicators: []string{
				fmt.Sprintf("high volume: %d requests", obs.Volume),
				fmt.Sprintf("low error rate: %.2f%%", obs.ErrRate*100),
			},
		}
	}

	// Heavy methods with abnormal latency.
	if _, heavy := c.heavyMethods[obs.Method]; heavy && (obs.ZLat > 4.0 || obs.P95 > 500) {
		return &models.Classification{
			Type:              models.AttackResourceExhaustion,
			Severity:          models.SeverityHigh,
			Confidence:        0.85,
			RecommendedAction: models.ActionRateLimitHeavyMethods,
			Indicators: []string{
				fmt.Sprintf("heavy method: %s", obs.Method),
				fmt.Sprintf("high latency: p95=%.0fms, z=%.1f", obs.P95, obs.ZLat),
			},
		}
	}

	// Very high error rate regardless of volume.
	if obs.ErrRate > 0.30 {
		severity := models.SeverityMedium
		if obs.ErrRate >= 0.50 {
			severity = models.SeverityHigh
		}
		return &models.Classification{
			Type:              models.AttackScanning,
			Severity:          severity,
			Confidence:        0.80,
			RecommendedAction: models.ActionBlockTemporary,
			Indicators: []string{
				fmt.Sprintf("high error rate: %.2f%%", obs.ErrRate*100),
				fmt.Sprintf("error z-score: %.1f", obs.ZErr),
			},
		}
	}

	// Auth methods failing more than half the time.
	if strings.Contains(strings.ToLower(obs.Method), "auth") && obs.ErrRate > 0.50 {
		return &models.Classification{
			Type:              models.AttackCredentialStuffing,
			Severity:          models.SeverityHigh,
			Confidence:        0.75,
			RecommendedAction: models.ActionBlockAndAlert,
			Indicators: []string{
				fmt.Sprintf("auth method: %s", obs.Method),
				fmt.Sprintf("high failure rate: %.2f%%", obs.ErrRate*100),
			},
		}
	}

	// Moderate volume with some errors.
	if obs.Volume > 500 && obs.ErrRate > 0.05 && obs.ErrRate < 0.30 {
		return &models.Classification{
			Type:              models.AttackRateAbuse,
			Severity:          models.SeverityMedium,
			Confidence:        0.70,
			RecommendedAction: models.ActionRateLimit,
			Indicators: []string{
				fmt.Sprintf("moderate volume: %d requests", obs.Volume),
				fmt.Sprintf("moderate errors: %.2f%%", obs.ErrRate*100),
			},
		}
	}

	return &models.Classification{
		Type:              models.AttackUnknown,
		Severity:          models.SeverityLow,
		Confidence:        0.50,
		RecommendedAction: models.ActionMonitor,
		Indicators: []string{
			fmt.Sprintf("requests: %d", obs.Volume),
			fmt.Sprintf("error rate: %.2f%%", obs.ErrRate*100),
			fmt.Sprintf("p95 latency: %.0fms", obs.P95),
		},
	}
}

// ShouldAutoBlock reports whether a classification warrants automatic
// blocking: confident enough and at least high severity.
func ShouldAutoBlock(c *models.Classification, minConfidence float64) bool {
	if c.Confidence < minConfidence {
		return false
	}
	return c.Severity == models.SeverityHigh || c.Severity == models.SeverityCritical
}

// FormatReport renders a classification as a human-readable report for
// operator-facing logs.
func FormatReport(c *models.Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attack Type: %s\n", strings.ToUpper(string(c.Type)))
	fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(string(c.Severity)))
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", c.Confidence*100)
	fmt.Fprintf(&b, "Recommended Action: %s\n", c.RecommendedAction)
	b.WriteString("\nIndicators:\n")
	for _, indicator := range c.Indicators {
		fmt.Fprintf(&b, "  - %s\n", indicator)
	}
	return b.String()
}
