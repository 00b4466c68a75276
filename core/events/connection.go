package events

import "fmt"

// ConnectionStatus is the transport connection health reported alongside the
// update stream.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// ParseConnectionStatus validates a wire connection status value.
func ParseConnectionStatus(raw string) (ConnectionStatus, error) {
	switch ConnectionStatus(raw) {
	case StatusDisconnected, StatusConnecting, StatusConnected, StatusError:
		return ConnectionStatus(raw), nil
	}
	return "", fmt.Errorf("unknown connection status %q", raw)
}

// KindConnectionStatusChanged identifies a transport health transition.
const KindConnectionStatusChanged Kind = "connection.status_changed"

// ConnectionStatusChanged carries a transport health transition. It enters
// the same stream as backend updates so ordering is preserved.
type ConnectionStatusChanged struct {
	Base
	Status ConnectionStatus
}

// NewConnectionStatusChanged creates a connection status event.
func NewConnectionStatusChanged(status ConnectionStatus) ConnectionStatusChanged {
	return ConnectionStatusChanged{Base: NewBase(KindConnectionStatusChanged), Status: status}
}
