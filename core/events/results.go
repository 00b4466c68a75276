package events

import "github.com/planforge/planforge-core/core/results"

// KindResultsUpdated identifies a displayable result batch.
const KindResultsUpdated Kind = "results.updated"

// ResultsUpdated carries a batch of results together with the merge flags
// the backend attached to the batch.
type ResultsUpdated struct {
	Base
	Results        []results.Result
	FadeOutResults bool
	ClearPrevious  bool
}

// NewResultsUpdated creates a results batch event.
func NewResultsUpdated(batch []results.Result, fadeOut, clearPrevious bool) ResultsUpdated {
	return ResultsUpdated{Base: NewBase(KindResultsUpdated), Results: batch, FadeOutResults: fadeOut, ClearPrevious: clearPrevious}
}
