package events

// KindPlanUpdated identifies arrival of textual plan content.
const KindPlanUpdated Kind = "plan.updated"

// PlanUpdated carries textual plan content. Complete reflects the backend's
// explicit completeness flag; classification of the content as a finished
// standardized plan is the reducer's concern.
type PlanUpdated struct {
	Base
	Content  string
	Complete bool
}

// NewPlanUpdated creates a plan update event.
func NewPlanUpdated(content string, complete bool) PlanUpdated {
	return PlanUpdated{Base: NewBase(KindPlanUpdated), Content: content, Complete: complete}
}
