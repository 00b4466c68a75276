package workflow

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/results"
)

// Sender identifies who contributed a chat turn.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// MessageKind distinguishes plain text turns from embedded non-text
// elements. Only plain text turns participate in transcript combining.
type MessageKind string

const (
	MessageText    MessageKind = "text"
	MessageElement MessageKind = "element"
)

// ChatMessage is one ordered turn of the conversation transcript.
type ChatMessage struct {
	ID        string
	Text      string
	Sender    Sender
	Kind      MessageKind
	Timestamp time.Time
}

// AgentStatus is the tracked metadata for one agent.
type AgentStatus struct {
	Name          string
	IsActive      bool
	StatusMessage string
	Progress      *float64
	LastActivity  time.Time
}

// WorkflowState is the single consistent view model the reducer maintains.
// Snapshots are immutable: each event produces a new value structurally
// shared with the previous one except for changed fields.
type WorkflowState struct {
	Messages         []ChatMessage
	IsProcessing     bool
	Stage            events.Stage
	Results          []results.Result
	ConnectionStatus events.ConnectionStatus
	ActiveAgents     []string
	AgentStatuses    map[string]AgentStatus

	// Err holds the last domain error text. It is sticky: only an explicit
	// reset clears it.
	Err string
}

// NewWorkflowState creates the initial idle, empty state.
func NewWorkflowState() WorkflowState {
	return WorkflowState{
		Stage:            events.StageIdle,
		ConnectionStatus: events.StatusDisconnected,
		AgentStatuses:    map[string]AgentStatus{},
	}
}

// Clone returns a deep copy that shares nothing with the receiver, so
// callers can hold it across further reductions.
func (s WorkflowState) Clone() WorkflowState {
	var cloned WorkflowState
	if err := copier.CopyWithOption(&cloned, &s, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on incompatible destinations, which cannot
		// happen for identical types; fall back to the shallow value.
		return s
	}
	if cloned.AgentStatuses == nil {
		cloned.AgentStatuses = map[string]AgentStatus{}
	}
	return cloned
}
