package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"feedback-board-api/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Client is one websocket subscribed to one board
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	board string
	hub   *Hub
}

// Hub fans board events out to the websockets on this instance
type Hub struct {
	clients   map[string]map[*Client]struct{}
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates a hub; call Run to start it
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		metrics:    m,
		logger:     logger,
	}
}

// Run owns client registration and delivery until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.board] == nil {
				h.clients[client.board] = make(map[*Client]struct{})
			}
			h.clients[client.board][client] = struct{}{}
			h.clientsMu.Unlock()
			h.reportConnections()

		case client := <-h.unregister:
			h.remove(client)
			h.reportConnections()

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ctx.Done():
			h.clientsMu.Lock()
			for board, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, board)
			}
			h.clientsMu.Unlock()
			return
		}
	}
}

// Publish queues an event for this instance's clients
func (h *Hub) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
		h.metrics.RecordRealtimeEvent(event.Type)
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connections reports how many clients watch board
func (h *Hub) Connections(board string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[board])
}

func (h *Hub) deliver(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode board event", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	var slow []*Client
	for client := range h.clients[event.Board] {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.clientsMu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Dropping slow board event client", zap.String("board", client.board))
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	clients, ok := h.clients[client.board]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.board)
	}
}

func (h *Hub) reportConnections() {
	h.clientsMu.RLock()
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	h.clientsMu.RUnlock()
	h.metrics.SetRealtimeConnections(total)
}

// Serve attaches an upgraded connection to board and blocks until it closes
func (h *Hub) Serve(conn *websocket.Conn, board string) {
	client := &Client{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		board: board,
		hub:   h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// readPump only watches for close and pong frames; clients never send events
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Board event stream closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
