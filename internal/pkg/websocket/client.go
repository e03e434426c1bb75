package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/services"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer
	maxMessageSize = 64 * 1024

	// Time allowed to store a message sent over the socket
	appendTimeout = 5 * time.Second

	sendBufferSize = 256
)

var newline = []byte{'\n'}

// Client is a middleman between one websocket and the conversation it follows
type Client struct {
	hub  *Hub
	chat Conversations

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound frames
	send       chan []byte
	sendMu     sync.Mutex
	sendClosed bool

	// Closed when the peer cannot keep up with the conversation
	slow     chan struct{}
	slowOnce sync.Once

	sub *services.Subscription

	userID       uuid.UUID
	connectionID uuid.UUID

	logger zerolog.Logger
}

func newClient(hub *Hub, chat Conversations, userID, connectionID uuid.UUID, logger zerolog.Logger) *Client {
	return &Client{
		hub:          hub,
		chat:         chat,
		send:         make(chan []byte, sendBufferSize),
		slow:         make(chan struct{}),
		userID:       userID,
		connectionID: connectionID,
		logger:       logger,
	}
}

// enqueue queues a frame without blocking. A full buffer drops the client:
// skipping a frame would leave a hole in the conversation.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.slowOnce.Do(func() {
			c.logger.Warn().Msg("Client send buffer full, dropping connection")
			close(c.slow)
		})
		return false
	}
}

// close stops the subscription and the write pump. Safe to call twice.
func (c *Client) close() {
	if c.sub != nil {
		c.sub.Close()
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// readPump turns inbound frames into appended messages
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Msg("WebSocket read error")
			}
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		c.handleFrame(ctx, message)
		cancel()
	}
}

// writePump pumps frames from the send buffer to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued frames, one JSON document per line
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-c.slow:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"))
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if allowAll || origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}
