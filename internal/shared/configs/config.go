package configs

// Config holds all configuration for the sentinel binaries. A single file
// carries every section; each binary reads the sections it needs.
type Config struct {
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Bus       BusConfig       `mapstructure:"bus" validate:"required"`
	Agent     AgentConfig     `mapstructure:"agent" validate:"required"`
	Saver     SaverConfig     `mapstructure:"saver" validate:"required"`
	Responder ResponderConfig `mapstructure:"responder" validate:"required"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Ops       OpsConfig       `mapstructure:"ops" validate:"required"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// BusConfig holds broker connection configuration.
type BusConfig struct {
	// BrokerURL is the mqtt:// or tcp:// address of the broker.
	BrokerURL string `mapstructure:"broker_url" validate:"required,uri"`
	// HeartbeatSecs is the liveness publish interval.
	HeartbeatSecs int `mapstructure:"heartbeat_secs" validate:"required,min=1"`
	// ReconnectBackoffSecs is the fixed wait between reconnect attempts.
	ReconnectBackoffSecs int `mapstructure:"reconnect_backoff_secs" validate:"required,min=1"`
}

// ThresholdConfig holds the four independent trigger thresholds. ZLat and
// ZErr inherit Z when left at 0, mirroring the shared z baseline.
type ThresholdConfig struct {
	Z       float64 `mapstructure:"z" validate:"required,gt=0"`
	ZLat    float64 `mapstructure:"z_lat" validate:"min=0"`
	ZErr    float64 `mapstructure:"z_err" validate:"min=0"`
	P95     float64 `mapstructure:"p95" validate:"required,gt=0"`
	ErrRate float64 `mapstructure:"err_rate" validate:"required,gt=0,lte=1"`
}

// EffectiveZLat returns the latency z threshold, falling back to the shared baseline.
func (t ThresholdConfig) EffectiveZLat() float64 {
	if t.ZLat > 0 {
		return t.ZLat
	}
	return t.Z
}

// EffectiveZErr returns the error z threshold, falling back to the shared baseline.
func (t ThresholdConfig) EffectiveZErr() float64 {
	if t.ZErr > 0 {
		return t.ZErr
	}
	return t.Z
}

// AgentConfig holds the tail-and-classify pipeline configuration.
type AgentConfig struct {
	LogPath      string          `mapstructure:"log_path" validate:"required"`
	Region       string          `mapstructure:"region" validate:"required"`
	ASN          int             `mapstructure:"asn" validate:"required,min=1"`
	WindowMS     int             `mapstructure:"window_ms" validate:"required,min=1"`
	Salt         string          `mapstructure:"salt" validate:"required"`
	HeavyMethods []string        `mapstructure:"heavy_methods" validate:"required,min=1"`
	Thresholds   ThresholdConfig `mapstructure:"thresholds" validate:"required"`
	// EmbedSaver runs the persistence side inside the agent process.
	EmbedSaver bool `mapstructure:"embed_saver"`
}

// StreamSinkConfig holds rotation and retention settings for one persisted stream.
type StreamSinkConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
	// RotateSecs is the bucket width; values below 60 are rejected to keep
	// filesystem churn bounded.
	RotateSecs int `mapstructure:"rotate_secs" validate:"required,min=60"`
	// TTLMins of 0 keeps files forever.
	TTLMins int `mapstructure:"ttl_mins" validate:"min=0"`
}

// SaverConfig holds the persistence side configuration.
type SaverConfig struct {
	Normal            StreamSinkConfig `mapstructure:"normal" validate:"required"`
	Flagged           StreamSinkConfig `mapstructure:"flagged" validate:"required"`
	SweepIntervalSecs int              `mapstructure:"sweep_interval_secs" validate:"required,min=1"`
}

// ResponderConfig holds the automated response daemon configuration.
type ResponderConfig struct {
	AutoBlock     bool    `mapstructure:"auto_block"`
	MinConfidence float64 `mapstructure:"min_confidence" validate:"required,gt=0,lte=1"`
	DryRun        bool    `mapstructure:"dry_run"`
	ActionsLog    string  `mapstructure:"actions_log" validate:"required"`
}

// MonitorConfig holds the console monitor configuration. The monitor reuses
// the agent thresholds to decide which lines render as flagged.
type MonitorConfig struct {
	Color bool `mapstructure:"color"`
	// Verbose shows every bus message; off, only flagged traffic prints.
	Verbose bool `mapstructure:"verbose"`
}

// OpsConfig holds the operational HTTP surface configuration.
type OpsConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}
