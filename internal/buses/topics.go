package buses

// Topic space is hierarchical with / separators; a trailing # in a
// subscription pattern matches all suffixes.
const (
	// TopicDiag carries window anomaly alerts.
	TopicDiag = "sentinel/diag"
	// TopicHealth carries the periodic liveness record.
	TopicHealth = "sentinel/health"
	// TopicAlertPrefix marks externally raised alert topics; anything
	// under it is persisted to the flagged stream.
	TopicAlertPrefix = "sentinel/alert"
	// PatternAll subscribes to every sentinel topic.
	PatternAll = "sentinel/#"
)
