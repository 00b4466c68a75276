// Package gateway implements the update stream transport against the
// planning backend's websocket gateway.
package gateway

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is a websocket update stream client. Create it with NewClient,
// open the stream with Connect, and Close it when the session ends.
type Client struct {
	connMu sync.Mutex
	conn   *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClient() *Client {
	return &Client{closed: make(chan struct{})}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Close tears the connection down and stops reconnection attempts. Events
// already handed to callbacks are unaffected.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.connMu.Lock()
		defer c.connMu.Unlock()

		if c.conn == nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
			closeErr = err
		}
		if err := c.conn.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
		c.conn = nil
	})
	return closeErr
}
