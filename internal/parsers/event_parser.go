package parsers

import (
	"encoding/json"
	"strings"
	"time"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/iphash"
	"rpc-sentinel/internal/shared/metrics"
)

const (
	defaultStatusCode = 200
)

//go:generate mockgen -source=event_parser.go -destination=./mocks/event_parser_mock.go -package=mocks
type EventParser interface {
	// Parse decodes one raw call-log line into an Event. A non-nil error
	// means the line is malformed and should be dropped, never that
	// processing should stop.
	Parse(line []byte) (*models.Event, error)
}

type eventParser struct {
	salt string
}

func NewEventParser(salt string) EventParser {
	return &eventParser{salt: salt}
}

// eventLine mirrors the input wire format. Optional fields keep documented
// defaults when absent: lat_ms=0, status=200, time=arrival time.
type eventLine struct {
	Time   string   `json:"time"`
	IP     string   `json:"ip"`
	Method string   `json:"method"`
	LatMS  *float64 `json:"lat_ms"`
	Status *int     `json:"status"`
}

func (p *eventParser) Parse(line []byte) (*models.Event, error) {
	var raw eventLine
	if err := json.Unmarshal(line, &raw); err != nil {
		svcErr := errMalformedLine(err)
		metricEventLinesParsedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	method := strings.TrimSpace(raw.Method)
	if method == "" {
		svcErr := errMissingMethod()
		metricEventLinesParsedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	latency := 0.0
	if raw.LatMS != nil {
		latency = *raw.LatMS
	}
	if latency < 0 {
		svcErr := errNegativeLatency(latency)
		metricEventLinesParsedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	status := defaultStatusCode
	if raw.Status != nil {
		status = *raw.Status
	}

	event := &models.Event{
		Time:       p.parseTime(raw.Time),
		Method:     method,
		LatencyMS:  latency,
		StatusCode: status,
	}
	if raw.IP != "" {
		event.SourceID = iphash.Hash(raw.IP, p.salt)
	}

	metricEventLinesParsedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return event, nil
}

// parseTime decodes the ISO8601 timestamp, falling back to arrival time so a
// sloppy producer clock never drops a line.
func (p *eventParser) parseTime(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}
