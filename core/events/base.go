package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

// NewBaseAt builds a base stamped with the backend-reported time instead of
// the local clock. Decoding uses it so replayed streams reduce identically.
func NewBaseAt(kind Kind, at time.Time) Base {
	return Base{kind: kind, timestamp: at}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
