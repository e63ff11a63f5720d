package models

// Severity orders attack classifications for response decisions.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Score converts a severity to a numeric rank. Unknown severities score 0.
func (s Severity) Score() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AttackType names a recognized traffic pattern.
type AttackType string

const (
	AttackDDoS               AttackType = "ddos"
	AttackResourceExhaustion AttackType = "resource_exhaustion"
	AttackScanning           AttackType = "scanning"
	AttackCredentialStuffing AttackType = "credential_stuffing"
	AttackRateAbuse          AttackType = "rate_abuse"
	AttackUnknown            AttackType = "unknown"
)

// ResponseAction is the recommended follow-up for a classification.
type ResponseAction string

const (
	ActionBlockImmediately      ResponseAction = "block_immediately"
	ActionRateLimitHeavyMethods ResponseAction = "rate_limit_heavy_methods"
	ActionBlockTemporary        ResponseAction = "block_temporary"
	ActionBlockAndAlert         ResponseAction = "block_and_alert"
	ActionRateLimit             ResponseAction = "rate_limit"
	ActionMonitor               ResponseAction = "monitor"
)

// Classification is the result of evaluating a flagged record against the
// attack rule table.
type Classification struct {
	Type              AttackType     `json:"type"`
	Severity          Severity       `json:"severity"`
	Confidence        float64        `json:"confidence"`
	RecommendedAction ResponseAction `json:"recommended_action"`
	Indicators        []string       `json:"indicators"`
}
