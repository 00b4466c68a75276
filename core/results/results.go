// Package results defines the displayable result model produced by the
// planning backend and the rules for folding incoming result batches into
// the authoritative result list.
package results

// Kind tags a result with its display category.
type Kind string

const (
	// KindGeneric identifies an untyped interim result card.
	KindGeneric Kind = "generic"
	// KindMarkdown identifies a markdown-bodied result.
	KindMarkdown Kind = "markdown"
	// KindItinerary identifies a structured itinerary result.
	KindItinerary Kind = "itinerary"
	// KindFinalPlan identifies the terminal standardized plan result.
	KindFinalPlan Kind = "final_plan"
)

// Result is a unit of UI-displayable output produced by the backend during
// or after processing.
type Result struct {
	ID      string
	Kind    Kind
	Title   string
	Content string
	Data    map[string]any

	// FadeOut marks the result for removal animation. It carries no backend
	// meaning beyond presentation.
	FadeOut bool
}

// MergeFlags alter how an incoming batch is folded into the current list.
type MergeFlags struct {
	FadeOutResults bool
	ClearPrevious  bool
}
