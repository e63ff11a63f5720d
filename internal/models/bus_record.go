package models

// BusRecord is one message received from the bus, decoded just far enough to
// route and bucket it. Payload is persisted verbatim. Absent fields keep
// their zero values: TS falls back to receive time (filled by the caller),
// z-scores default to 0 and simply never look anomalous.
type BusRecord struct {
	Topic   string
	TS      int64
	ZLat    float64
	ZErr    float64
	Payload []byte
}
