package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/updates"
)

const eventQueueSize = 256

// ErrNoUpdateSource reports a Connect call on a session built without a
// transport.
var ErrNoUpdateSource = errors.New("no update source configured")

// Session owns one workflow's state cell and the subscriptions onto it. It
// is an explicitly constructed component with a bounded lifecycle: create it,
// Open it, Close it, discard it. All events, from the transport and from the
// UI alike, funnel through one FIFO queue so no event's processing overlaps
// another's.
type Session struct {
	mu      sync.RWMutex
	state   WorkflowState
	reducer *Reducer

	source         UpdateSource
	connectOptions []updates.ConnectOption

	subsMu     sync.Mutex
	nextSubID  int
	updateSubs map[int]func(WorkflowState)
	statusSubs map[int]func(events.ConnectionStatus)

	queue     chan events.Event
	done      chan struct{}
	openOnce  sync.Once
	closeOnce sync.Once
}

// NewSession creates a session with fresh idle state.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state:      NewWorkflowState(),
		reducer:    NewReducer(),
		updateSubs: map[int]func(WorkflowState){},
		statusSubs: map[int]func(events.ConnectionStatus){},
		queue:      make(chan events.Event, eventQueueSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts the apply loop. Events queued before Open are applied in
// arrival order once it starts.
//
// Contract: call Open at most once per session instance.
func (s *Session) Open(ctx context.Context) {
	s.openOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Session) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case event := <-s.queue:
			// Close wins over queued backlog: nothing is delivered after done
			// closes, even events accepted before it.
			select {
			case <-s.done:
				return
			default:
			}
			s.apply(event)
		}
	}
}

// Close stops event delivery and disconnects the transport. Already-applied
// transitions are never rolled back.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.Disconnect(); err != nil {
			logger.Warn("failed to disconnect update source", "error", err)
		}
		close(s.done)
	})
}

// Connect opens the update stream through the configured transport and
// routes its events and status transitions into the session queue.
func (s *Session) Connect(ctx context.Context) error {
	if s.source == nil {
		return ErrNoUpdateSource
	}

	ctx, span := tracer.Start(ctx, "connect update stream")
	defer span.End()

	opts := append([]updates.ConnectOption{
		updates.WithUpdateCallback(s.Apply),
		updates.WithStatusCallback(func(status events.ConnectionStatus) {
			s.Apply(events.NewConnectionStatusChanged(status))
		}),
		updates.WithDecodeErrorCallback(func(err error) {
			logger.Warn("dropping malformed update frame", "error", err)
		}),
	}, s.connectOptions...)

	return s.source.Connect(ctx, opts...)
}

// Disconnect closes the transport without touching accumulated state.
func (s *Session) Disconnect() error {
	if s.source == nil {
		return nil
	}
	return s.source.Close()
}

// Apply queues one event for reduction. Delivery order is the call order;
// events queued after Close are dropped.
func (s *Session) Apply(event events.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case <-s.done:
	case s.queue <- event:
	}
}

// AddUserMessage injects a user chat turn, the only way the UI contributes
// to the transcript.
func (s *Session) AddUserMessage(text string) {
	s.Apply(events.NewUserMessageAdded(text))
}

// Reset discards the workflow state wholesale.
func (s *Session) Reset() {
	s.Apply(events.NewWorkflowReset())
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() WorkflowState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// SubscribeToUpdates registers a handler invoked with a snapshot after every
// applied event. The returned handle removes the subscription and is safe to
// call multiple times.
func (s *Session) SubscribeToUpdates(handler func(WorkflowState)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.updateSubs[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.updateSubs, id)
		})
	}
}

// SubscribeToConnectionStatus registers a handler invoked on every
// connection status transition, with the same handle semantics as
// SubscribeToUpdates.
func (s *Session) SubscribeToConnectionStatus(handler func(events.ConnectionStatus)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.statusSubs[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.statusSubs, id)
		})
	}
}

func (s *Session) apply(event events.Event) {
	s.mu.Lock()
	s.state = s.reducer.Reduce(s.state, event)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if statusEvent, ok := event.(events.ConnectionStatusChanged); ok {
		for _, handler := range s.statusHandlers() {
			handler(statusEvent.Status)
		}
	}

	for _, handler := range s.updateHandlers() {
		handler(snapshot)
	}
}

func (s *Session) updateHandlers() []func(WorkflowState) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	handlers := make([]func(WorkflowState), 0, len(s.updateSubs))
	for _, handler := range s.updateSubs {
		handlers = append(handlers, handler)
	}
	return handlers
}

func (s *Session) statusHandlers() []func(events.ConnectionStatus) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	handlers := make([]func(events.ConnectionStatus), 0, len(s.statusSubs))
	for _, handler := range s.statusSubs {
		handlers = append(handlers, handler)
	}
	return handlers
}
