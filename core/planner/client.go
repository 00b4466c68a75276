// Package planner is the REST client for the planning backend's control
// API: starting, continuing, inspecting and finalizing plans. The update
// stream itself arrives separately through the gateway transport.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/planforge/planforge-core/core/transform"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const baseURLEnv = "PLANFORGE_API_URL"

// Preferences capture the traveller constraints forwarded when a plan
// starts.
type Preferences struct {
	Budget    string
	Travelers int
	Interests []string
	StartDate string
	EndDate   string
}

type wirePreferences struct {
	Budget    string   `json:"budget,omitempty"`
	Travelers int      `json:"travelers,omitempty"`
	Interests []string `json:"interests,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

// PlanHandle identifies a started plan.
type PlanHandle struct {
	PlanID string `json:"plan_id"`
	Status string `json:"status"`
}

// AgentStatusInfo is the backend's tracked per-agent status entry.
type AgentStatusInfo struct {
	Status      string `json:"status"`
	DisplayName string `json:"display_name"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

// PlanStatus is a point-in-time view of a plan's backend state.
type PlanStatus struct {
	PlanID        string                     `json:"plan_id"`
	Status        string                     `json:"status"`
	UpdatedAt     string                     `json:"updated_at"`
	AgentStatuses map[string]AgentStatusInfo `json:"agents"`
	Response      string                     `json:"final_response"`
}

// Client talks to the planning REST API.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, which otherwise comes from
// PLANFORGE_API_URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserID attributes started plans to a user.
func WithUserID(userID string) ClientOption {
	return func(c *Client) {
		c.userID = userID
	}
}

// NewClient creates a planning API client with traced HTTP transport.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		userID:     "default",
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	if baseURL, ok := os.LookupEnv(baseURLEnv); ok {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartPlanning submits a new planning goal and returns the plan handle the
// update stream can be scoped to.
func (c *Client) StartPlanning(ctx context.Context, goal string, preferences Preferences) (*PlanHandle, error) {
	ctx, span := tracer.Start(ctx, "start planning", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("request.goal", goal))

	var prefs wirePreferences
	copier.Copy(&prefs, &preferences)

	body := struct {
		UserGoal        string          `json:"user_goal"`
		UserPreferences wirePreferences `json:"user_preferences"`
		UserID          string          `json:"user_id"`
	}{UserGoal: goal, UserPreferences: prefs, UserID: c.userID}

	var handle PlanHandle
	if err := c.post(ctx, "/api/planning/start", body, &handle); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("response.plan_id", handle.PlanID))
	return &handle, nil
}

// ContinuePlanning forwards a follow-up user message to a running plan.
func (c *Client) ContinuePlanning(ctx context.Context, planID, message string) (*PlanStatus, error) {
	ctx, span := tracer.Start(ctx, "continue planning", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("request.plan_id", planID))

	body := struct {
		PlanID    string `json:"plan_id"`
		UserInput string `json:"user_input"`
	}{PlanID: planID, UserInput: message}

	var status PlanStatus
	if err := c.post(ctx, "/api/planning/continue", body, &status); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &status, nil
}

// GetStatus fetches the backend's current view of a plan.
func (c *Client) GetStatus(ctx context.Context, planID string) (*PlanStatus, error) {
	ctx, span := tracer.Start(ctx, "get plan status", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("request.plan_id", planID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/planning/%s/status", c.baseURL, planID), nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}

	var status PlanStatus
	if err := c.do(req, &status); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &status, nil
}

// FinalizePlan asks the backend to compile the finished plan into a
// schema-constrained itinerary document.
func (c *Client) FinalizePlan(ctx context.Context, planID string) (*transform.ItineraryDocument, error) {
	ctx, span := tracer.Start(ctx, "finalize plan", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("request.plan_id", planID))

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(transform.ItineraryDocument{})
	schemaBytes, _ := schema.MarshalJSON()
	span.SetAttributes(attribute.String("request.schema", string(schemaBytes)))

	body := struct {
		ResponseFormat string             `json:"response_format"`
		ResponseSchema *jsonschema.Schema `json:"response_schema"`
	}{ResponseFormat: "json_schema", ResponseSchema: schema}

	var document transform.ItineraryDocument
	if err := c.post(ctx, fmt.Sprintf("/api/planning/%s/finalize", planID), body, &document); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &document, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn("planning API request failed",
			"status", resp.StatusCode, "path", req.URL.Path)
		return fmt.Errorf("planning API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
