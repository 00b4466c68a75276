package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/updates"
)

func TestProcessFrameDeliversDecodedEvents(t *testing.T) {
	delivered := make(chan events.Event, 1)
	options := updates.ConnectOptions{
		UpdateCallback: func(event events.Event) { delivered <- event },
	}

	processFrame([]byte(`{"type":"STAGE_CHANGE","payload":{"stage":"executing"}}`), &options)

	select {
	case event := <-delivered:
		if event.Kind() != events.KindStageChanged {
			t.Fatalf("expected stage change event, got %q", event.Kind())
		}
	default:
		t.Fatalf("expected update callback invoked")
	}
}

func TestProcessFrameDropsMalformedFramesAndContinues(t *testing.T) {
	updateCalls := atomic.Int32{}
	decodeErrors := atomic.Int32{}
	options := updates.ConnectOptions{
		UpdateCallback:      func(events.Event) { updateCalls.Add(1) },
		DecodeErrorCallback: func(error) { decodeErrors.Add(1) },
	}

	processFrame([]byte(`{"type":"MYSTERY"}`), &options)
	processFrame([]byte(`not even json`), &options)
	processFrame([]byte(`{"type":"SYSTEM_NOTIFICATION","payload":{"message":"hi"}}`), &options)

	if got := decodeErrors.Load(); got != 2 {
		t.Fatalf("expected 2 decode errors reported, got %d", got)
	}
	if got := updateCalls.Load(); got != 1 {
		t.Fatalf("expected the valid frame delivered, got %d", got)
	}
}

func TestProcessFrameWithoutCallbacksDoesNotPanic(t *testing.T) {
	options := updates.ConnectOptions{}

	processFrame([]byte(`garbage`), &options)
	processFrame([]byte(`{"type":"SYSTEM_NOTIFICATION","payload":{}}`), &options)
}

func TestConnectStreamsEventsFromGateway(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("plan_id"); got != "plan-123" {
			t.Errorf("expected plan_id query parameter, got %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		defer conn.Close()

		frames := []string{
			`{"type":"AGENT_ACTIVATED","payload":{"agentType":"planner"}}`,
			`junk frame`,
			`{"type":"PLAN_UPDATE","payload":{"content":"hello"}}`,
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	endpoint := "ws" + strings.TrimPrefix(server.URL, "http")

	delivered := make(chan events.Event, 4)
	decodeErrors := make(chan error, 4)
	statuses := make(chan events.ConnectionStatus, 8)

	client := NewClient()
	defer client.Close()

	err := client.Connect(context.Background(),
		updates.WithEndpoint(endpoint),
		updates.WithPlanID("plan-123"),
		updates.WithUpdateCallback(func(event events.Event) { delivered <- event }),
		updates.WithDecodeErrorCallback(func(err error) { decodeErrors <- err }),
		updates.WithStatusCallback(func(status events.ConnectionStatus) { statuses <- status }),
	)
	if err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}

	expectStatus(t, statuses, events.StatusConnecting)
	expectStatus(t, statuses, events.StatusConnected)

	first := expectEvent(t, delivered)
	if first.Kind() != events.KindAgentActivated {
		t.Fatalf("expected agent activation first, got %q", first.Kind())
	}

	select {
	case <-decodeErrors:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected decode error for junk frame")
	}

	second := expectEvent(t, delivered)
	if second.Kind() != events.KindPlanUpdated {
		t.Fatalf("expected plan update after dropped frame, got %q", second.Kind())
	}
}

func TestConnectWithoutEndpointFails(t *testing.T) {
	t.Setenv(endpointEnv, "")

	client := NewClient()
	defer client.Close()

	if err := client.Connect(context.Background(), updates.WithEndpoint("")); err == nil {
		t.Fatalf("expected connect to fail without an endpoint")
	}
}

func expectEvent(t *testing.T, delivered chan events.Event) events.Event {
	t.Helper()
	select {
	case event := <-delivered:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func expectStatus(t *testing.T, statuses chan events.ConnectionStatus, expected events.ConnectionStatus) {
	t.Helper()
	select {
	case status := <-statuses:
		if status != expected {
			t.Fatalf("expected status %q, got %q", expected, status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for status %q", expected)
	}
}
