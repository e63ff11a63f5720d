package savers

import (
	"encoding/json"
	"time"

	"rpc-sentinel/internal/models"
)

// recordLine pulls the routing fields out of a bus payload. Everything else
// is persisted untouched.
type recordLine struct {
	TS *float64 `json:"ts"`
	Z  struct {
		Lat float64 `json:"lat"`
		Err float64 `json:"err"`
	} `json:"z"`
}

// rawWrapper preserves undecodable payloads as a valid JSONL line.
type rawWrapper struct {
	Raw string `json:"raw"`
}

// DecodeRecord turns one received bus message into a routable record. It
// never fails: a payload that is not valid JSON is wrapped as {"raw": ...}
// and routed as normal traffic, and an absent or non-numeric ts falls back
// to the receive time.
func DecodeRecord(topic string, payload []byte, receivedAt time.Time) *models.BusRecord {
	record := &models.BusRecord{
		Topic:   topic,
		TS:      receivedAt.Unix(),
		Payload: payload,
	}

	var line recordLine
	if err := json.Unmarshal(payload, &line); err != nil {
		wrapped, _ := json.Marshal(rawWrapper{Raw: string(payload)})
		record.Payload = wrapped
		return record
	}

	if line.TS != nil {
		record.TS = int64(*line.TS)
	}
	record.ZLat = line.Z.Lat
	record.ZErr = line.Z.Err
	return record
}
