// Package updates defines the connection options shared by update stream
// transports.
package updates

import "github.com/planforge/planforge-core/core/events"

type ConnectOptions struct {
	// Endpoint overrides the gateway websocket URL.
	Endpoint string
	// PlanID scopes the subscription to one plan's update stream.
	PlanID string

	UpdateCallback      func(event events.Event)
	StatusCallback      func(status events.ConnectionStatus)
	DecodeErrorCallback func(err error)
}

type ConnectOption func(*ConnectOptions)

func WithEndpoint(endpoint string) ConnectOption {
	return func(o *ConnectOptions) {
		o.Endpoint = endpoint
	}
}

func WithPlanID(planID string) ConnectOption {
	return func(o *ConnectOptions) {
		o.PlanID = planID
	}
}

func WithUpdateCallback(callback func(event events.Event)) ConnectOption {
	return func(o *ConnectOptions) {
		o.UpdateCallback = callback
	}
}

func WithStatusCallback(callback func(status events.ConnectionStatus)) ConnectOption {
	return func(o *ConnectOptions) {
		o.StatusCallback = callback
	}
}

func WithDecodeErrorCallback(callback func(err error)) ConnectOption {
	return func(o *ConnectOptions) {
		o.DecodeErrorCallback = callback
	}
}
