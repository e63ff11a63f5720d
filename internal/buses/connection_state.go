package buses

// ConnState models the connection lifecycle explicitly:
// Disconnected → Connecting → Connected → (on error) Reconnecting →
// Connecting. Cancelling connection-dependent tasks is part of the
// Connected → Reconnecting transition, not a side effect.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
