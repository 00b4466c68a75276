package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStartPlanningSendsGoalAndPreferences(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/planning/start" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"plan_id": "plan-42", "status": "planning"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithUserID("traveller-1"))

	handle, err := client.StartPlanning(context.Background(), "two weeks in Japan", Preferences{
		Budget:    "$3000",
		Travelers: 2,
		Interests: []string{"food", "temples"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if handle.PlanID != "plan-42" {
		t.Fatalf("expected plan-42, got %q", handle.PlanID)
	}
	if received["user_goal"] != "two weeks in Japan" {
		t.Fatalf("expected goal forwarded, got %v", received["user_goal"])
	}
	if received["user_id"] != "traveller-1" {
		t.Fatalf("expected user id forwarded, got %v", received["user_id"])
	}
	prefs, ok := received["user_preferences"].(map[string]any)
	if !ok || prefs["budget"] != "$3000" {
		t.Fatalf("expected preferences forwarded, got %v", received["user_preferences"])
	}
}

func TestGetStatusParsesAgentStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/planning/plan-7/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"plan_id": "plan-7",
			"status":  "planning",
			"agents": map[string]any{
				"search_flights": map[string]string{
					"status":       "active",
					"display_name": "Flight Specialist",
				},
			},
			"final_response": "Your trip is taking shape.",
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	status, err := client.GetStatus(context.Background(), "plan-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	agent, ok := status.AgentStatuses["search_flights"]
	if !ok {
		t.Fatalf("expected flight agent status present, got %+v", status.AgentStatuses)
	}
	if agent.DisplayName != "Flight Specialist" || agent.Status != "active" {
		t.Fatalf("unexpected agent status %+v", agent)
	}
	if status.Response != "Your trip is taking shape." {
		t.Fatalf("expected final response carried, got %q", status.Response)
	}
}

func TestContinuePlanningSendsUserInput(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/planning/continue" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"plan_id": "plan-7", "status": "planning"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	status, err := client.ContinuePlanning(context.Background(), "plan-7", "add a day in Nara")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.PlanID != "plan-7" {
		t.Fatalf("expected plan-7, got %q", status.PlanID)
	}
	if received["plan_id"] != "plan-7" {
		t.Fatalf("expected plan id forwarded, got %v", received["plan_id"])
	}
	if received["user_input"] != "add a day in Nara" {
		t.Fatalf("expected user input forwarded, got %v", received["user_input"])
	}
}

func TestFinalizePlanRequestsSchemaConstrainedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body["response_format"] != "json_schema" {
			t.Errorf("expected json_schema response format, got %v", body["response_format"])
		}
		if _, ok := body["response_schema"].(map[string]any); !ok {
			t.Errorf("expected schema attached, got %v", body["response_schema"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"destination": "Lisbon",
			"days":        []map[string]any{{"day": 1, "summary": "Alfama"}},
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	document, err := client.FinalizePlan(context.Background(), "plan-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Destination != "Lisbon" || len(document.Days) != 1 {
		t.Fatalf("unexpected document %+v", document)
	}
}

func TestErrorResponsesSurfaceStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"orchestrator unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	if _, err := client.GetStatus(context.Background(), "plan-1"); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
