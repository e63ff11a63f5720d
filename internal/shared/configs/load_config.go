package configs

import (
	"fmt"
	"strings"

	"rpc-sentinel/internal/shared/validators"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from file, applies defaults and environment
// overrides (SENTINEL_ prefix, dots replaced by underscores), and validates
// it. Any invalid value is fatal: the caller should refuse to start.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// setDefaults registers the documented default for every recognized option.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("bus.broker_url", "mqtt://mosquitto:1883")
	v.SetDefault("bus.heartbeat_secs", 5)
	v.SetDefault("bus.reconnect_backoff_secs", 1)

	v.SetDefault("agent.log_path", "/data/rpc.jsonl")
	v.SetDefault("agent.region", "eu-central")
	v.SetDefault("agent.asn", 64512)
	v.SetDefault("agent.window_ms", 250)
	v.SetDefault("agent.salt", "change-me")
	v.SetDefault("agent.heavy_methods", []string{"getProgramAccounts", "getLogs"})
	v.SetDefault("agent.thresholds.z", 3.0)
	v.SetDefault("agent.thresholds.z_lat", 0.0)
	v.SetDefault("agent.thresholds.z_err", 0.0)
	v.SetDefault("agent.thresholds.p95", 250.0)
	v.SetDefault("agent.thresholds.err_rate", 0.05)
	v.SetDefault("agent.embed_saver", false)

	v.SetDefault("saver.normal.dir", "/data/logs_normal")
	v.SetDefault("saver.normal.rotate_secs", 1800)
	v.SetDefault("saver.normal.ttl_mins", 120)
	v.SetDefault("saver.flagged.dir", "/data/malicious_logs")
	v.SetDefault("saver.flagged.rotate_secs", 180)
	v.SetDefault("saver.flagged.ttl_mins", 0)
	v.SetDefault("saver.sweep_interval_secs", 60)

	v.SetDefault("responder.auto_block", false)
	v.SetDefault("responder.min_confidence", 0.75)
	v.SetDefault("responder.dry_run", false)
	v.SetDefault("responder.actions_log", "/data/actions.log")

	v.SetDefault("monitor.color", true)
	v.SetDefault("monitor.verbose", false)

	v.SetDefault("ops.port", 9108)
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "bus.broker_url")
	if e.StructNamespace() != "" {
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required":
		msg = fmt.Sprintf("%s (required)", field)
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "gt":
		msg = fmt.Sprintf("%s (gt=%s)", field, e.Param())
	case "lte":
		msg = fmt.Sprintf("%s (lte=%s)", field, e.Param())
	case "uri":
		msg = fmt.Sprintf("%s (must be a valid URI)", field)
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
