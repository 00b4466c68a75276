package workflow

import (
	"time"

	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/results"
	"github.com/planforge/planforge-core/core/transform"
)

const (
	// defaultCompleteThreshold is the content length above which plan
	// content counts as a complete plan on the strands backend.
	defaultCompleteThreshold = 200

	planReadyMessage           = "Your comprehensive travel plan is ready!"
	agentCompletedMessage      = "Completed"
	defaultNotificationMessage = "System notification"
	completionDefaultMessage   = "Processing complete"
)

// PlanTransformer standardizes complete plan content into the terminal
// result. Failures are caught by the reducer, never propagated.
type PlanTransformer interface {
	StandardizePlan(content string) (results.Result, error)
}

// Reducer folds update events into workflow state snapshots. The zero-value
// configuration treats every plan update as a conversational fragment; the
// strands backend option enables completeness classification.
type Reducer struct {
	strandsBackend    bool
	completeThreshold int
	transformer       PlanTransformer
}

// NewReducer creates a reducer with the default classification policy and
// plan standardizer.
func NewReducer(opts ...ReducerOption) *Reducer {
	r := &Reducer{
		completeThreshold: defaultCompleteThreshold,
		transformer:       transform.NewPlanStandardizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies one event to a state snapshot and returns the next
// snapshot. It is pure and total: unknown events return the state
// unchanged, and no input is ever mutated. Time is taken from the event,
// never from the local clock.
func (r *Reducer) Reduce(state WorkflowState, event events.Event) WorkflowState {
	switch typedEvent := event.(type) {
	case events.StageChanged:
		// Stages are trusted verbatim; the backend is authoritative even
		// for backward or skipped transitions.
		state.Stage = typedEvent.Stage
		return state

	case events.AgentActivated:
		return reduceAgentActivated(state, typedEvent)

	case events.AgentDeactivated:
		return reduceAgentFinished(state, typedEvent.Agent, typedEvent.Timestamp())

	case events.AgentCompleted:
		return reduceAgentFinished(state, typedEvent.Agent, typedEvent.Timestamp())

	case events.PlanUpdated:
		return r.reducePlanUpdated(state, typedEvent)

	case events.SystemNotification:
		return reduceSystemNotification(state, typedEvent)

	case events.AgentError:
		return reduceError(state, typedEvent.Error, typedEvent.Timestamp())

	case events.SystemError:
		return reduceError(state, typedEvent.Error, typedEvent.Timestamp())

	case events.ConnectionStatusChanged:
		state.ConnectionStatus = typedEvent.Status
		return state

	case events.ResultsUpdated:
		state.Results = results.Merge(state.Results, typedEvent.Results, results.MergeFlags{
			FadeOutResults: typedEvent.FadeOutResults,
			ClearPrevious:  typedEvent.ClearPrevious,
		})
		return state

	case events.UserMessageAdded:
		state.Messages = appendText(state.Messages, SenderUser, typedEvent.Text, typedEvent.Timestamp())
		state.IsProcessing = true
		return state

	case events.WorkflowReset:
		// Wholesale discard; connection health belongs to the transport and
		// survives the reset.
		reset := NewWorkflowState()
		reset.ConnectionStatus = state.ConnectionStatus
		return reset
	}

	return state
}

func reduceAgentActivated(state WorkflowState, event events.AgentActivated) WorkflowState {
	message := event.Message
	if message == "" {
		message = event.Name + " is working..."
	}

	statuses := cloneAgentStatuses(state.AgentStatuses)
	statuses[event.Agent] = AgentStatus{
		Name:          event.Name,
		IsActive:      true,
		StatusMessage: message,
		Progress:      event.Progress,
		LastActivity:  event.Timestamp(),
	}
	state.AgentStatuses = statuses

	// Re-activation is a no-op on the set but still refreshed the record.
	state.ActiveAgents = addActiveAgent(state.ActiveAgents, event.Agent)
	return state
}

func reduceAgentFinished(state WorkflowState, agent string, at time.Time) WorkflowState {
	statuses := cloneAgentStatuses(state.AgentStatuses)
	status, ok := statuses[agent]
	if !ok {
		status = AgentStatus{Name: agent}
	}
	status.IsActive = false
	status.StatusMessage = agentCompletedMessage
	status.LastActivity = at
	statuses[agent] = status

	state.AgentStatuses = statuses
	state.ActiveAgents = removeActiveAgent(state.ActiveAgents, agent)
	return state
}

func (r *Reducer) reducePlanUpdated(state WorkflowState, event events.PlanUpdated) WorkflowState {
	if event.Content == "" {
		return state
	}

	if r.isCompletePlan(event) {
		if result, err := r.transformer.StandardizePlan(event.Content); err == nil {
			state.Results = []results.Result{result}
			state.Stage = events.StageComplete
			state.IsProcessing = false
			state.Messages = appendText(state.Messages, SenderSystem, planReadyMessage, event.Timestamp())
			return state
		}
		// Standardization failures degrade to the partial path below so the
		// content is surfaced instead of lost.
	}

	state.Messages = appendText(state.Messages, SenderSystem, event.Content, event.Timestamp())
	return state
}

func (r *Reducer) isCompletePlan(event events.PlanUpdated) bool {
	if !r.strandsBackend {
		return false
	}
	return event.Complete || len(event.Content) > r.completeThreshold
}

func reduceSystemNotification(state WorkflowState, event events.SystemNotification) WorkflowState {
	message := event.Message

	if event.Completed {
		if message == "" {
			message = completionDefaultMessage
		}
		state.IsProcessing = false
		state.Messages = appendText(state.Messages, SenderSystem, message, event.Timestamp())
		return state
	}

	if message == "" {
		message = defaultNotificationMessage
	}
	state.Messages = appendText(state.Messages, SenderSystem, message, event.Timestamp())
	return state
}

func reduceError(state WorkflowState, errText string, at time.Time) WorkflowState {
	state.Messages = appendText(state.Messages, SenderSystem, "Error: "+errText, at)
	state.Err = errText
	return state
}
