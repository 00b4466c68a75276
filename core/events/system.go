package events

const (
	// KindSystemNotification identifies an informational backend message.
	KindSystemNotification Kind = "system.notification"
	// KindSystemError identifies a backend-level failure.
	KindSystemError Kind = "system.error"
)

// SystemNotification carries an informational message. Completed is set when
// the payload status data indicates the workflow finished processing.
type SystemNotification struct {
	Base
	Message   string
	Completed bool
}

// NewSystemNotification creates a system notification event.
func NewSystemNotification(message string, completed bool) SystemNotification {
	return SystemNotification{Base: NewBase(KindSystemNotification), Message: message, Completed: completed}
}

// SystemError carries a backend-level failure.
type SystemError struct {
	Base
	Error string
}

// NewSystemError creates a system error event.
func NewSystemError(err string) SystemError {
	return SystemError{Base: NewBase(KindSystemError), Error: err}
}
