package workflow

import (
	"context"

	"github.com/planforge/planforge-core/core/updates"
)

type ReducerOption func(*Reducer)

// WithStrandsBackend selects the strands backend's plan classification
// heuristics: plan updates flagged complete, or exceeding the completeness
// threshold, are standardized into the terminal result.
func WithStrandsBackend(enabled bool) ReducerOption {
	return func(r *Reducer) {
		r.strandsBackend = enabled
	}
}

// WithCompleteThreshold overrides the content length above which plan
// content counts as complete. The default is 200 characters.
func WithCompleteThreshold(chars int) ReducerOption {
	return func(r *Reducer) {
		if chars > 0 {
			r.completeThreshold = chars
		}
	}
}

// WithPlanTransformer replaces the plan standardization collaborator.
func WithPlanTransformer(transformer PlanTransformer) ReducerOption {
	return func(r *Reducer) {
		if transformer != nil {
			r.transformer = transformer
		}
	}
}

type SessionOption func(*Session)

// WithReducer replaces the session's reducer.
func WithReducer(reducer *Reducer) SessionOption {
	return func(s *Session) {
		if reducer != nil {
			s.reducer = reducer
		}
	}
}

// UpdateSource is the transport collaborator delivering update events and
// connection status transitions over one persistent connection.
type UpdateSource interface {
	Connect(ctx context.Context, opts ...updates.ConnectOption) error
	Close() error
}

// WithUpdateSource wires the transport the session connects through.
func WithUpdateSource(source UpdateSource) SessionOption {
	return func(s *Session) {
		s.source = source
	}
}

// WithConnectOptions appends transport options forwarded on every Connect
// call, e.g. the endpoint and plan identifier.
func WithConnectOptions(opts ...updates.ConnectOption) SessionOption {
	return func(s *Session) {
		s.connectOptions = append(s.connectOptions, opts...)
	}
}
