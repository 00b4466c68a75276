// Package transform standardizes raw plan content emitted by the backend
// into a single terminal result the UI can render directly.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/planforge/planforge-core/core/results"
)

// ErrEmptyPlanContent reports plan content with nothing to standardize.
var ErrEmptyPlanContent = errors.New("plan content is empty")

// ItineraryDocument is the structured plan shape the backend produces when
// it compiles an itinerary.
type ItineraryDocument struct {
	Title       string    `json:"title,omitempty"`
	Destination string    `json:"destination"`
	Summary     string    `json:"summary,omitempty"`
	Days        []DayPlan `json:"days,omitempty"`
	Budget      string    `json:"budget,omitempty"`
}

// DayPlan is one day of a compiled itinerary.
type DayPlan struct {
	Day        int      `json:"day"`
	Summary    string   `json:"summary,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// PlanStandardizer converts complete plan content into the terminal
// standardized result.
type PlanStandardizer struct{}

// NewPlanStandardizer creates a standardizer.
func NewPlanStandardizer() *PlanStandardizer {
	return &PlanStandardizer{}
}

// StandardizePlan turns complete plan content into a single final-plan
// result. Structured itinerary JSON keeps its parsed document attached;
// anything else is carried as markdown-ish text verbatim.
func (s *PlanStandardizer) StandardizePlan(content string) (results.Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return results.Result{}, ErrEmptyPlanContent
	}

	if document, err := parseItinerary(trimmed); err == nil {
		return results.Result{
			ID:      uuid.NewString(),
			Kind:    results.KindFinalPlan,
			Title:   documentTitle(document),
			Content: renderItinerary(document),
			Data:    documentData(document),
		}, nil
	}

	return results.Result{
		ID:      uuid.NewString(),
		Kind:    results.KindFinalPlan,
		Title:   "Travel Plan",
		Content: trimmed,
	}, nil
}

func parseItinerary(content string) (ItineraryDocument, error) {
	var document ItineraryDocument
	if !strings.HasPrefix(content, "{") {
		return document, errors.New("not a JSON document")
	}
	if err := json.Unmarshal([]byte(content), &document); err != nil {
		return document, fmt.Errorf("failed to parse itinerary document: %w", err)
	}
	if document.Destination == "" && len(document.Days) == 0 {
		return document, errors.New("document carries no itinerary fields")
	}
	return document, nil
}

func documentTitle(document ItineraryDocument) string {
	if document.Title != "" {
		return document.Title
	}
	if document.Destination != "" {
		return "Trip to " + document.Destination
	}
	return "Travel Plan"
}

func renderItinerary(document ItineraryDocument) string {
	var builder strings.Builder
	if document.Summary != "" {
		builder.WriteString(document.Summary)
		builder.WriteString("\n")
	}
	for _, day := range document.Days {
		fmt.Fprintf(&builder, "\nDay %d", day.Day)
		if day.Summary != "" {
			builder.WriteString(": " + day.Summary)
		}
		for _, activity := range day.Activities {
			builder.WriteString("\n  - " + activity)
		}
	}
	if document.Budget != "" {
		builder.WriteString("\n\nBudget: " + document.Budget)
	}
	return strings.TrimSpace(builder.String())
}

func documentData(document ItineraryDocument) map[string]any {
	data := map[string]any{"destination": document.Destination}
	if document.Budget != "" {
		data["budget"] = document.Budget
	}
	if len(document.Days) > 0 {
		data["days"] = len(document.Days)
	}
	return data
}
