package events

const (
	// KindAgentActivated identifies an agent starting work.
	KindAgentActivated Kind = "agent.activated"
	// KindAgentDeactivated identifies an agent stopping work.
	KindAgentDeactivated Kind = "agent.deactivated"
	// KindAgentCompleted identifies an agent finishing its task.
	KindAgentCompleted Kind = "agent.completed"
	// KindAgentError identifies an agent failure.
	KindAgentError Kind = "agent.error"
)

// AgentActivated marks an agent as working. Agent is the normalized
// identifier, Name the human-readable label resolved at decode time.
type AgentActivated struct {
	Base
	Agent    string
	Name     string
	Message  string
	Progress *float64
}

// NewAgentActivated creates an agent activation event.
func NewAgentActivated(agent, name, message string, progress *float64) AgentActivated {
	return AgentActivated{Base: NewBase(KindAgentActivated), Agent: agent, Name: name, Message: message, Progress: progress}
}

// AgentDeactivated marks an agent as no longer working.
type AgentDeactivated struct {
	Base
	Agent string
}

// NewAgentDeactivated creates an agent deactivation event.
func NewAgentDeactivated(agent string) AgentDeactivated {
	return AgentDeactivated{Base: NewBase(KindAgentDeactivated), Agent: agent}
}

// AgentCompleted marks an agent as finished. Reduces identically to
// AgentDeactivated.
type AgentCompleted struct {
	Base
	Agent string
}

// NewAgentCompleted creates an agent completion event.
func NewAgentCompleted(agent string) AgentCompleted {
	return AgentCompleted{Base: NewBase(KindAgentCompleted), Agent: agent}
}

// AgentError carries an agent-reported failure.
type AgentError struct {
	Base
	Agent string
	Error string
}

// NewAgentError creates an agent error event.
func NewAgentError(agent, err string) AgentError {
	return AgentError{Base: NewBase(KindAgentError), Agent: agent, Error: err}
}
