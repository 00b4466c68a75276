package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/planforge/planforge-core/core/results"
)

func TestStandardizePlanRejectsEmptyContent(t *testing.T) {
	standardizer := NewPlanStandardizer()

	if _, err := standardizer.StandardizePlan("   \n "); !errors.Is(err, ErrEmptyPlanContent) {
		t.Fatalf("expected ErrEmptyPlanContent, got %v", err)
	}
}

func TestStandardizePlanParsesItineraryDocument(t *testing.T) {
	standardizer := NewPlanStandardizer()
	content := `{
		"destination": "Kyoto",
		"summary": "Five days of temples and food.",
		"days": [
			{"day": 1, "summary": "Arrival", "activities": ["Check in", "Gion walk"]},
			{"day": 2, "activities": ["Fushimi Inari"]}
		],
		"budget": "$2400"
	}`

	result, err := standardizer.StandardizePlan(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Kind != results.KindFinalPlan {
		t.Fatalf("expected final plan kind, got %q", result.Kind)
	}
	if result.ID == "" {
		t.Fatalf("expected generated result ID")
	}
	if result.Title != "Trip to Kyoto" {
		t.Fatalf("expected destination title, got %q", result.Title)
	}
	if !strings.Contains(result.Content, "Day 1: Arrival") || !strings.Contains(result.Content, "Fushimi Inari") {
		t.Fatalf("expected rendered days in content, got %q", result.Content)
	}
	if result.Data["destination"] != "Kyoto" || result.Data["days"] != 2 {
		t.Fatalf("expected document data attached, got %+v", result.Data)
	}
}

func TestStandardizePlanWrapsPlainTextVerbatim(t *testing.T) {
	standardizer := NewPlanStandardizer()
	content := "Here is your plan:\n\n- fly to Lisbon\n- eat pasteis"

	result, err := standardizer.StandardizePlan(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Kind != results.KindFinalPlan {
		t.Fatalf("expected final plan kind, got %q", result.Kind)
	}
	if result.Content != content {
		t.Fatalf("expected content carried verbatim, got %q", result.Content)
	}
	if result.Title != "Travel Plan" {
		t.Fatalf("expected default title, got %q", result.Title)
	}
}

func TestStandardizePlanFallsBackOnUnparseableJSON(t *testing.T) {
	standardizer := NewPlanStandardizer()

	result, err := standardizer.StandardizePlan(`{"note": "no itinerary fields"}`)
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if result.Kind != results.KindFinalPlan {
		t.Fatalf("expected final plan kind, got %q", result.Kind)
	}
}
