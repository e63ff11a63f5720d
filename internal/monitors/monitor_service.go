package monitors

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/shared/loggers"
)

const (
	ansiRed   = "\033[1;31m"
	ansiGreen = "\033[1;32m"
	ansiCyan  = "\033[36m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// MonitorThresholds mirror the agent trigger thresholds; a record breaching
// any of them renders as flagged.
type MonitorThresholds struct {
	ZLat    float64
	ZErr    float64
	P95     float64
	ErrRate float64
}

// MonitorOptions control rendering. Quiet mode (Verbose false) shows flagged
// traffic only; Color wraps lines in ANSI sequences.
type MonitorOptions struct {
	Color   bool
	Verbose bool
}

//go:generate mockgen -source=monitor_service.go -destination=./mocks/monitor_service_mock.go -package=mocks

// MonitorService renders the live bus stream to a console, one compact JSON
// line per message, flagged traffic highlighted.
type MonitorService interface {
	OnBusMessage(ctx context.Context, msg *buses.Message)
}

type monitorService struct {
	thresholds MonitorThresholds
	options    MonitorOptions

	mu  sync.Mutex
	out io.Writer

	logger loggers.Logger
}

func NewMonitorService(thresholds MonitorThresholds, options MonitorOptions, out io.Writer, logger loggers.Logger) MonitorService {
	return &monitorService{
		thresholds: thresholds,
		options:    options,
		out:        out,
		logger:     logger,
	}
}

// monitorFields is the subset of a payload the flag decision reads. Absent
// fields keep zero values and never look anomalous.
type monitorFields struct {
	TS *int64 `json:"ts"`
	Z  struct {
		Lat float64 `json:"lat"`
		Err float64 `json:"err"`
	} `json:"z"`
	Metrics struct {
		P95     float64 `json:"p95"`
		ErrRate float64 `json:"err_rate"`
	} `json:"metrics"`
}

// consoleLine is the rendered shape: receive metadata wrapping the payload.
type consoleLine struct {
	TS    int64           `json:"ts"`
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// OnBusMessage renders one message. Runs on the transport delivery
// goroutine; output is serialized through a mutex so concurrent deliveries
// never interleave lines.
func (m *monitorService) OnBusMessage(_ context.Context, msg *buses.Message) {
	var fields monitorFields
	data := json.RawMessage(msg.Payload)
	if err := json.Unmarshal(msg.Payload, &fields); err != nil {
		// Keep malformed payloads visible instead of dropping them.
		wrapped, _ := json.Marshal(map[string]string{"raw": string(msg.Payload)})
		data = wrapped
		fields = monitorFields{}
	}

	flagged := m.isFlagged(msg.Topic, &fields)
	metricMonitorLinesTotal.WithLabelValues(strconv.FormatBool(flagged)).Inc()
	if !flagged && !m.options.Verbose {
		return
	}

	ts := time.Now().Unix()
	if fields.TS != nil {
		ts = *fields.TS
	}

	rendered, err := json.Marshal(consoleLine{TS: ts, Topic: msg.Topic, Data: data})
	if err != nil {
		m.logger.Warn().Err(err).Str(loggers.FieldTopic, msg.Topic).Msg("console line encode failed")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = m.out.Write([]byte(m.colorize(string(rendered), msg.Topic, flagged) + "\n"))
}

func (m *monitorService) isFlagged(topic string, fields *monitorFields) bool {
	if strings.HasPrefix(topic, buses.TopicAlertPrefix) {
		return true
	}
	if fields.Z.Lat >= m.thresholds.ZLat || fields.Z.Err >= m.thresholds.ZErr {
		return true
	}
	return fields.Metrics.P95 >= m.thresholds.P95 || fields.Metrics.ErrRate >= m.thresholds.ErrRate
}

func (m *monitorService) colorize(line, topic string, flagged bool) string {
	if !m.options.Color {
		return line
	}
	switch {
	case flagged:
		return ansiRed + line + ansiReset
	case strings.HasPrefix(topic, buses.TopicHealth):
		return ansiDim + ansiGreen + line + ansiReset
	default:
		return ansiCyan + line + ansiReset
	}
}
