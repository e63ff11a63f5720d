package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yml")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadConfig_DefaultsApply(t *testing.T) {
	// A minimal file picks up the documented default for everything else.
	path := writeConfigFile(t, `log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "mqtt://mosquitto:1883", cfg.Bus.BrokerURL)
	assert.Equal(t, 5, cfg.Bus.HeartbeatSecs)
	assert.Equal(t, 1, cfg.Bus.ReconnectBackoffSecs)
	assert.Equal(t, "/data/rpc.jsonl", cfg.Agent.LogPath)
	assert.Equal(t, "eu-central", cfg.Agent.Region)
	assert.Equal(t, 64512, cfg.Agent.ASN)
	assert.Equal(t, 250, cfg.Agent.WindowMS)
	assert.Equal(t, []string{"getProgramAccounts", "getLogs"}, cfg.Agent.HeavyMethods)
	assert.InDelta(t, 3.0, cfg.Agent.Thresholds.Z, 1e-9)
	assert.InDelta(t, 250.0, cfg.Agent.Thresholds.P95, 1e-9)
	assert.InDelta(t, 0.05, cfg.Agent.Thresholds.ErrRate, 1e-9)
	assert.Equal(t, 1800, cfg.Saver.Normal.RotateSecs)
	assert.Equal(t, 120, cfg.Saver.Normal.TTLMins)
	assert.Equal(t, 180, cfg.Saver.Flagged.RotateSecs)
	assert.Equal(t, 0, cfg.Saver.Flagged.TTLMins)
	assert.Equal(t, 60, cfg.Saver.SweepIntervalSecs)
	assert.InDelta(t, 0.75, cfg.Responder.MinConfidence, 1e-9)
	assert.True(t, cfg.Monitor.Color)
	assert.False(t, cfg.Monitor.Verbose)
	assert.Equal(t, 9108, cfg.Ops.Port)
}

func TestLoadConfig_ThresholdInheritance(t *testing.T) {
	path := writeConfigFile(t, `agent:
  thresholds:
    z: 2.5
    z_err: 4.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// z_lat inherits the shared baseline; z_err keeps its override.
	assert.InDelta(t, 2.5, cfg.Agent.Thresholds.EffectiveZLat(), 1e-9)
	assert.InDelta(t, 4.0, cfg.Agent.Thresholds.EffectiveZErr(), 1e-9)
}

func TestLoadConfig_RejectsErrRateAboveOne(t *testing.T) {
	path := writeConfigFile(t, `agent:
  thresholds:
    err_rate: 1.5
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "errrate")
}

func TestLoadConfig_RejectsShortRotationPeriod(t *testing.T) {
	path := writeConfigFile(t, `saver:
  flagged:
    rotate_secs: 10
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "rotatesecs")
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/configs.yml")
	assert.Nil(t, cfg)
	assert.Error(t, err)
}
