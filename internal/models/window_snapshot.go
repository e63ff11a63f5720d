package models

// WindowSnapshot is the read-only view of one method's window at flush time.
// Taking a snapshot never mutates window state.
type WindowSnapshot struct {
	Method  string
	Calls   int64
	Errors  int64
	P95     float64
	ErrRate float64
	ZLat    float64
	ZErr    float64
	// Sample is the most recent hashed source seen in the window, empty
	// when no line in the window carried an address.
	Sample string
}
