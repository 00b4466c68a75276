package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planforge/planforge-core/core/results"
)

// ErrUnknownEventType reports an envelope type outside the update contract.
var ErrUnknownEventType = errors.New("unknown update event type")

// DecodeError wraps a malformed inbound frame. Callers are expected to drop
// the frame and keep the stream alive.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("decode update event: %v", e.Err)
	}
	return fmt.Sprintf("decode %s update event: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// envelope is the backend's wire frame shape.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type payload struct {
	Stage       string `json:"stage"`
	AgentType   string `json:"agentType"`
	Agent       string `json:"agent"`
	AgentName   string `json:"agentName"`
	DisplayName string `json:"displayName"`

	Message  string   `json:"message"`
	Content  string   `json:"content"`
	Complete bool     `json:"complete"`
	Status   string   `json:"status"`
	Error    string   `json:"error"`
	Progress *float64 `json:"progress"`

	Results        json.RawMessage `json:"results"`
	FadeOutResults bool            `json:"fadeOutResults"`
	ClearPrevious  bool            `json:"clearPrevious"`

	Timestamp string `json:"timestamp"`
}

type resultPayload struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Data    map[string]any `json:"data"`
	FadeOut bool           `json:"fadeOut"`
}

// Decode validates one inbound frame and tags it as exactly one event
// variant. Agent identifier aliases (agentType, agent, agentName) are
// normalized here, once, so handlers never chase fallback chains.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if env.Type == "" {
		return nil, &DecodeError{Err: errors.New("missing event type")}
	}

	var body payload
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &body); err != nil {
			return nil, &DecodeError{Type: env.Type, Err: err}
		}
	}

	base := func(kind Kind) Base {
		if at, err := time.Parse(time.RFC3339, body.Timestamp); err == nil {
			return NewBaseAt(kind, at)
		}
		return NewBase(kind)
	}

	switch strings.ToUpper(env.Type) {
	case "STAGE_CHANGE":
		stage, err := ParseStage(body.Stage)
		if err != nil {
			return nil, &DecodeError{Type: env.Type, Err: err}
		}
		return StageChanged{Base: base(KindStageChanged), Stage: stage}, nil

	case "AGENT_ACTIVATED":
		agent, name := resolveAgent(body)
		return AgentActivated{Base: base(KindAgentActivated), Agent: agent, Name: name, Message: body.Message, Progress: body.Progress}, nil

	case "AGENT_DEACTIVATED":
		agent, _ := resolveAgent(body)
		return AgentDeactivated{Base: base(KindAgentDeactivated), Agent: agent}, nil

	case "AGENT_COMPLETE":
		agent, _ := resolveAgent(body)
		return AgentCompleted{Base: base(KindAgentCompleted), Agent: agent}, nil

	case "PLAN_UPDATE":
		return PlanUpdated{Base: base(KindPlanUpdated), Content: body.Content, Complete: body.Complete}, nil

	case "SYSTEM_NOTIFICATION":
		return SystemNotification{Base: base(KindSystemNotification), Message: body.Message, Completed: isCompletedStatus(body.Status)}, nil

	case "AGENT_ERROR":
		agent, _ := resolveAgent(body)
		return AgentError{Base: base(KindAgentError), Agent: agent, Error: errorText(body)}, nil

	case "SYSTEM_ERROR":
		return SystemError{Base: base(KindSystemError), Error: errorText(body)}, nil

	case "CONNECTION_STATUS":
		status, err := ParseConnectionStatus(body.Status)
		if err != nil {
			return nil, &DecodeError{Type: env.Type, Err: err}
		}
		return ConnectionStatusChanged{Base: base(KindConnectionStatusChanged), Status: status}, nil

	case "RESULTS_UPDATED":
		batch, text, err := decodeResultsField(body.Results)
		if err != nil {
			return nil, &DecodeError{Type: env.Type, Err: err}
		}
		// The backend's final-response emission carries results as one plain
		// text value; route it through plan handling so it is classified and
		// standardized instead of shown as a raw card.
		if text != "" {
			return PlanUpdated{Base: base(KindPlanUpdated), Content: text, Complete: isCompletedStatus(body.Status)}, nil
		}
		return ResultsUpdated{Base: base(KindResultsUpdated), Results: batch, FadeOutResults: body.FadeOutResults, ClearPrevious: body.ClearPrevious}, nil
	}

	return nil, &DecodeError{Type: env.Type, Err: ErrUnknownEventType}
}

// resolveAgent picks the agent identifier from the primary field, then its
// aliases, then a stage-appropriate default label. The display name falls
// back to the identifier itself.
func resolveAgent(body payload) (agent, name string) {
	agent = firstNonEmpty(body.AgentType, body.Agent, body.AgentName)
	if agent == "" {
		agent = defaultAgentLabel(body.Stage)
	}
	name = firstNonEmpty(body.DisplayName, body.AgentName, agent)
	return agent, name
}

func defaultAgentLabel(stage string) string {
	switch Stage(stage) {
	case StagePlanning:
		return "planner"
	case StageRouting:
		return "router"
	case StageExecuting:
		return "executor"
	case StageUpdating:
		return "updater"
	}
	return "assistant"
}

func isCompletedStatus(status string) bool {
	switch strings.ToLower(status) {
	case "complete", "completed", "done":
		return true
	}
	return false
}

func errorText(body payload) string {
	if text := firstNonEmpty(body.Error, body.Message); text != "" {
		return text
	}
	return "Unknown error"
}

// decodeResultsField accepts both shapes of the results value: a list of
// result entries, or one plain text payload.
func decodeResultsField(raw json.RawMessage) (batch []results.Result, text string, err error) {
	if len(raw) == 0 {
		return nil, "", nil
	}

	var entries []resultPayload
	if err := json.Unmarshal(raw, &entries); err == nil {
		return decodeResults(entries), "", nil
	}
	if err := json.Unmarshal(raw, &text); err == nil {
		return nil, text, nil
	}
	return nil, "", errors.New("results is neither a list nor text")
}

func decodeResults(batch []resultPayload) []results.Result {
	if len(batch) == 0 {
		return nil
	}

	decoded := make([]results.Result, 0, len(batch))
	for _, entry := range batch {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		decoded = append(decoded, results.Result{
			ID:      id,
			Kind:    resultKind(firstNonEmpty(entry.Kind, entry.Type)),
			Title:   entry.Title,
			Content: entry.Content,
			Data:    entry.Data,
			FadeOut: entry.FadeOut,
		})
	}
	return decoded
}

func resultKind(raw string) results.Kind {
	switch results.Kind(strings.ToLower(raw)) {
	case results.KindMarkdown:
		return results.KindMarkdown
	case results.KindItinerary:
		return results.KindItinerary
	case results.KindFinalPlan:
		return results.KindFinalPlan
	}
	return results.KindGeneric
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
