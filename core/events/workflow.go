package events

import "fmt"

// Stage is the coarse phase of a multi-agent planning task.
type Stage string

const (
	StageIdle      Stage = "idle"
	StagePlanning  Stage = "planning"
	StageRouting   Stage = "routing"
	StageExecuting Stage = "executing"
	StageUpdating  Stage = "updating"
	StageComplete  Stage = "complete"
)

// ParseStage validates a wire stage value.
func ParseStage(raw string) (Stage, error) {
	switch Stage(raw) {
	case StageIdle, StagePlanning, StageRouting, StageExecuting, StageUpdating, StageComplete:
		return Stage(raw), nil
	}
	return "", fmt.Errorf("unknown workflow stage %q", raw)
}

const (
	// KindStageChanged identifies a workflow stage transition.
	KindStageChanged Kind = "workflow.stage_changed"
	// KindWorkflowReset identifies a locally injected session reset.
	KindWorkflowReset Kind = "workflow.reset"
)

// StageChanged moves the workflow to a new stage.
type StageChanged struct {
	Base
	Stage Stage
}

// NewStageChanged creates a stage transition event.
func NewStageChanged(stage Stage) StageChanged {
	return StageChanged{Base: NewBase(KindStageChanged), Stage: stage}
}

// WorkflowReset requests discarding the session state wholesale.
type WorkflowReset struct{ Base }

// NewWorkflowReset creates a session reset event.
func NewWorkflowReset() WorkflowReset {
	return WorkflowReset{Base: NewBase(KindWorkflowReset)}
}
