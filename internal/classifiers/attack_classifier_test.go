package classifiers_test

import (
	"testing"

	"rpc-sentinel/internal/classifiers"
	"rpc-sentinel/internal/models"

	"github.com/stretchr/testify/assert"
)

var heavyMethods = []string{"getProgramAccounts", "getLogs"}

func TestClassify_DDoSCritical(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	c := classifier.Classify(&classifiers.Observation{Volume: 5000, ErrRate: 0.05})
	assert.Equal(t, models.AttackDDoS, c.Type)
	assert.Equal(t, models.SeverityCritical, c.Severity)
	assert.Equal(t, 0.90, c.Confidence)
	assert.Equal(t, models.ActionBlockImmediately, c.RecommendedAction)

	c = classifier.Classify(&classifiers.Observation{Volume: 2000, ErrRate: 0.05})
	assert.Equal(t, models.AttackDDoS, c.Type)
	assert.Equal(t, models.SeverityHigh, c.Severity)
}

func TestClassify_ResourceExhaustion(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	c := classifier.Classify(&classifiers.Observation{
		Method: "getProgramAccounts",
		ZLat:   8.0,
		P95:    600,
	})

	assert.Equal(t, models.AttackResourceExhaustion, c.Type)
	assert.Equal(t, models.SeverityHigh, c.Severity)
	assert.Equal(t, 0.85, c.Confidence)
	assert.Equal(t, models.ActionRateLimitHeavyMethods, c.RecommendedAction)
}

func TestClassify_ScanningSeveritySplit(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	c := classifier.Classify(&classifiers.Observation{ErrRate: 0.60})
	assert.Equal(t, models.AttackScanning, c.Type)
	assert.Equal(t, models.SeverityHigh, c.Severity)
	assert.Equal(t, 0.80, c.Confidence)

	c = classifier.Classify(&classifiers.Observation{ErrRate: 0.40})
	assert.Equal(t, models.AttackScanning, c.Type)
	assert.Equal(t, models.SeverityMedium, c.Severity)
	assert.Equal(t, models.ActionBlockTemporary, c.RecommendedAction)
}

func TestClassify_CredentialStuffing(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	// err_rate 0.30 keeps the scanning rule from matching first.
	c := classifier.Classify(&classifiers.Observation{Method: "authSubscribe", ErrRate: 0.30})
	assert.NotEqual(t, models.AttackCredentialStuffing, c.Type, "0.30 is below the auth failure threshold")

	// Scanning sits above credential stuffing in the rule order, so an
	// auth method with err_rate > 0.50 classifies as scanning first.
	c = classifier.Classify(&classifiers.Observation{Method: "authSubscribe", ErrRate: 0.60})
	assert.Equal(t, models.AttackScanning, c.Type)
}

func TestClassify_RateAbuse(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	c := classifier.Classify(&classifiers.Observation{Volume: 800, ErrRate: 0.10})

	assert.Equal(t, models.AttackRateAbuse, c.Type)
	assert.Equal(t, models.SeverityMedium, c.Severity)
	assert.Equal(t, 0.70, c.Confidence)
	assert.Equal(t, models.ActionRateLimit, c.RecommendedAction)
}

func TestClassify_UnknownFallback(t *testing.T) {
	t.Parallel()

	classifier := classifiers.NewAttackClassifier(heavyMethods)

	c := classifier.Classify(&classifiers.Observation{Volume: 50, ErrRate: 0.01})

	assert.Equal(t, models.AttackUnknown, c.Type)
	assert.Equal(t, models.SeverityLow, c.Severity)
	assert.Equal(t, 0.50, c.Confidence)
	assert.Equal(t, models.ActionMonitor, c.RecommendedAction)
	assert.NotEmpty(t, c.Indicators)
}

func TestShouldAutoBlock(t *testing.T) {
	t.Parallel()

	high := &models.Classification{Severity: models.SeverityHigh, Confidence: 0.85}
	assert.True(t, classifiers.ShouldAutoBlock(high, 0.75))

	lowConfidence := &models.Classification{Severity: models.SeverityCritical, Confidence: 0.60}
	assert.False(t, classifiers.ShouldAutoBlock(lowConfidence, 0.75))

	medium := &models.Classification{Severity: models.SeverityMedium, Confidence: 0.99}
	assert.False(t, classifiers.ShouldAutoBlock(medium, 0.75))
}

func TestObservationFromAlert(t *testing.T) {
	t.Parallel()

	alert := &models.Alert{
		Method:  "getLogs",
		Metrics: models.AlertMetrics{P95: 600, ErrRate: 0.2},
		Z:       models.AlertZScores{Lat: 5.5, Err: 1.1},
	}

	obs := classifiers.ObservationFromAlert(alert)

	assert.Equal(t, "getLogs", obs.Method)
	assert.Equal(t, 600.0, obs.P95)
	assert.Equal(t, 0.2, obs.ErrRate)
	assert.Equal(t, 5.5, obs.ZLat)
	assert.Equal(t, 1.1, obs.ZErr)
	assert.Equal(t, int64(0), obs.Volume, "alerts carry no volume on the wire")
}
