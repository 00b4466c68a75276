package gateway

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/planforge/planforge-core/core/events"
	"github.com/planforge/planforge-core/core/updates"
)

const (
	endpointEnv = "PLANFORGE_GATEWAY_URL"

	keepAliveInterval     = 30 * time.Second
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second
)

// Connect opens the websocket stream and starts delivering decoded update
// events to the configured callbacks. Lost connections reconnect with capped
// exponential backoff; events emitted while disconnected are not replayed,
// so consumers get at-most-once delivery without gap detection.
func (c *Client) Connect(ctx context.Context, opts ...updates.ConnectOption) error {
	options := &updates.ConnectOptions{}
	for _, opt := range opts {
		opt(options)
	}

	endpoint := options.Endpoint
	if endpoint == "" {
		var ok bool
		if endpoint, ok = os.LookupEnv(endpointEnv); !ok {
			return fmt.Errorf("gateway endpoint not configured and %s not set", endpointEnv)
		}
	}

	reportStatus(options, events.StatusConnecting)

	conn, err := dial(endpoint, options.PlanID)
	if err != nil {
		reportStatus(options, events.StatusError)
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.setConn(conn)
	reportStatus(options, events.StatusConnected)

	go c.readAndProcessMessages(ctx, conn, endpoint, *options)

	return nil
}

func dial(endpoint, planID string) (*websocket.Conn, error) {
	gatewayURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway endpoint: %w", err)
	}

	if planID != "" {
		queryParams := gatewayURL.Query()
		queryParams.Set("plan_id", planID)
		gatewayURL.RawQuery = queryParams.Encode()
	}

	conn, _, err := websocket.DefaultDialer.Dial(gatewayURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to gateway: %w", err)
	}

	return conn, nil
}

func (c *Client) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, endpoint string, options updates.ConnectOptions) {
	keepAliveCtx, keepAliveCancel := context.WithCancel(ctx)
	defer keepAliveCancel()

	go c.sendKeepAlives(keepAliveCtx)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if c.isClosed() || ctx.Err() != nil {
				reportStatus(&options, events.StatusDisconnected)
				return
			}

			log.Println("Gateway connection lost, reconnecting", "error", err)
			reportStatus(&options, events.StatusError)

			conn = c.reconnect(ctx, endpoint, &options)
			if conn == nil {
				reportStatus(&options, events.StatusDisconnected)
				return
			}
			reportStatus(&options, events.StatusConnected)
			continue
		}

		processFrame(raw, &options)
	}
}

// processFrame decodes one inbound frame. Malformed frames are reported and
// dropped; the stream continues.
func processFrame(raw []byte, options *updates.ConnectOptions) {
	event, err := events.Decode(raw)
	if err != nil {
		if options.DecodeErrorCallback != nil {
			options.DecodeErrorCallback(err)
		} else {
			log.Println("Dropping malformed gateway frame", "error", err)
		}
		return
	}

	if options.UpdateCallback != nil {
		options.UpdateCallback(event)
	}
}

// reconnect redials until it succeeds, the context ends, or the client is
// closed. Returns nil when giving up.
func (c *Client) reconnect(ctx context.Context, endpoint string, options *updates.ConnectOptions) *websocket.Conn {
	delay := initialReconnectDelay
	for {
		if c.isClosed() || ctx.Err() != nil {
			return nil
		}

		reportStatus(options, events.StatusConnecting)
		conn, err := dial(endpoint, options.PlanID)
		if err == nil {
			c.setConn(conn)
			return conn
		}

		log.Println("Gateway reconnect failed", "error", err)
		reportStatus(options, events.StatusError)

		select {
		case <-ctx.Done():
			return nil
		case <-c.closed:
			return nil
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (c *Client) sendKeepAlives(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-ticker.C:
			c.sendKeepAlive()
		}
	}
}

func (c *Client) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
		log.Println("Failed to ping gateway", "error", err)
	}
}

func reportStatus(options *updates.ConnectOptions, status events.ConnectionStatus) {
	if options.StatusCallback != nil {
		options.StatusCallback(status)
	}
}
