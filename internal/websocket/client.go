package websocket

import (
	"context"
	"time"

	"cubie-assistant/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Conn is the part of a websocket connection the client uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// HandleFunc answers one inbound text frame with one outbound frame.
type HandleFunc func(ctx context.Context, userID string, payload []byte) []byte

// Client is one chat connection. Frames are handled in arrival order so a
// session's turns stay sequential.
type Client struct {
	UserID string

	hub    *Hub
	conn   Conn
	handle HandleFunc
	send   chan []byte
	logger logger.ILogger
}

func NewClient(hub *Hub, conn Conn, userID string, handle HandleFunc, log logger.ILogger) *Client {
	return &Client{
		UserID: userID,
		hub:    hub,
		conn:   conn,
		handle: handle,
		send:   make(chan []byte, 32),
		logger: log,
	}
}

func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn("WEBSOCKET", "Send buffer full, dropping frame", map[string]interface{}{"user_id": c.UserID})
	}
}

// Serve blocks until the peer disconnects or ctx is done.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.hub.register(c)
	defer c.hub.unregister(c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump(ctx)
	}()

	c.readPump(ctx)
	cancel()
	<-done
	c.conn.Close()
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WEBSOCKET", "Connection closed unexpectedly", map[string]interface{}{"user_id": c.UserID, "error": err})
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if out := c.handle(ctx, c.UserID, data); out != nil {
			c.enqueue(out)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
