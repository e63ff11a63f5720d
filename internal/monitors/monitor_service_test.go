package monitors_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/monitors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultThresholds() monitors.MonitorThresholds {
	return monitors.MonitorThresholds{ZLat: 3.0, ZErr: 3.0, P95: 250.0, ErrRate: 0.05}
}

func newMonitor(options monitors.MonitorOptions) (monitors.MonitorService, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return monitors.NewMonitorService(defaultThresholds(), options, out, zerolog.Nop()), out
}

type renderedLine struct {
	TS    int64           `json:"ts"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

func parseLine(t *testing.T, raw string) renderedLine {
	t.Helper()
	var line renderedLine
	require.NoError(t, json.Unmarshal([]byte(raw), &line))
	return line
}

func TestMonitorService_RendersFlaggedAlert(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{})
	payload := `{"ts":1700000000,"method":"getLogs","z":{"lat":4.2,"err":0.1},"metrics":{"p95":120,"err_rate":0.01}}`

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: buses.TopicDiag, Payload: []byte(payload)})

	line := parseLine(t, strings.TrimSuffix(out.String(), "\n"))
	assert.Equal(t, int64(1700000000), line.TS)
	assert.Equal(t, buses.TopicDiag, line.Topic)
	assert.JSONEq(t, payload, string(line.Data))
}

func TestMonitorService_QuietModeSkipsRoutineTraffic(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{})
	payload := `{"ts":1700000000,"region":"eu-central","asn":64512,"status":"ok"}`

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: buses.TopicHealth, Payload: []byte(payload)})

	assert.Empty(t, out.String())
}

func TestMonitorService_VerboseShowsHeartbeats(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{Verbose: true, Color: true})
	payload := `{"ts":1700000000,"region":"eu-central","asn":64512,"status":"ok"}`

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: buses.TopicHealth, Payload: []byte(payload)})

	rendered := out.String()
	assert.True(t, strings.HasPrefix(rendered, "\033[2m\033[1;32m"), "heartbeats render dim green")
	assert.Contains(t, rendered, `"topic":"sentinel/health"`)
}

func TestMonitorService_ColorsFlaggedRed(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{Color: true})

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: "sentinel/alert/eu", Payload: []byte(`{"ts":1}`)})

	assert.True(t, strings.HasPrefix(out.String(), "\033[1;31m"), "flagged lines render red")
}

func TestMonitorService_FlagsThresholdBreachWithoutAlertTopic(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{})
	payload := `{"ts":1700000000,"z":{"lat":0.2,"err":0.1},"metrics":{"p95":120,"err_rate":0.5}}`

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: buses.TopicDiag, Payload: []byte(payload)})

	line := parseLine(t, strings.TrimSuffix(out.String(), "\n"))
	assert.Equal(t, buses.TopicDiag, line.Topic)
}

func TestMonitorService_WrapsUndecodablePayload(t *testing.T) {
	t.Parallel()

	monitor, out := newMonitor(monitors.MonitorOptions{Verbose: true})

	monitor.OnBusMessage(context.Background(), &buses.Message{Topic: buses.TopicDiag, Payload: []byte("garbage line")})

	line := parseLine(t, strings.TrimSuffix(out.String(), "\n"))
	assert.JSONEq(t, `{"raw":"garbage line"}`, string(line.Data))
	assert.NotZero(t, line.TS)
}
