package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"cubie-assistant/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "assistant:ws:broadcast"

// Hub tracks live chat connections. Broadcasts are fanned out to other API
// instances through Redis when a client is configured.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// Frame is the envelope of every server-to-client message.
type Frame struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run relays cluster broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		<-ctx.Done()
		return
	}
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var cm clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
				h.logger.Warn("WEBSOCKET", "Dropping malformed cluster message", map[string]interface{}{"error": err})
				continue
			}
			if cm.Origin == h.instanceID {
				continue
			}
			h.deliver(cm.Message)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.logger.Debug("WEBSOCKET", "Client registered", map[string]interface{}{"user_id": c.UserID})
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
}

func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event frame to every connected client on every
// instance.
func (h *Hub) Broadcast(eventType string, payload map[string]interface{}) {
	data, err := json.Marshal(Frame{Type: "event", Data: map[string]interface{}{"event": eventType, "payload": payload}})
	if err != nil {
		return
	}
	h.deliver(data)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
			h.logger.Warn("WEBSOCKET", "Cluster publish failed", map[string]interface{}{"error": err})
		}
	}
}

func (h *Hub) deliver(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			c.enqueue(data)
		}
	}
}
