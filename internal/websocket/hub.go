package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"pm-assist-be/internal/pkg/logger"
	"pm-assist-be/pkg/notify"

	"github.com/redis/go-redis/v9"
)

// Hub fans toasts out to the panels watching an entity. Clients register
// keyed by entity id; a Redis channel carries toasts across instances.
type Hub struct {
	// EntityID -> list of clients (several open panels per entity)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil for single instance
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.EntityID] = append(h.clients[client.EntityID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"entity_id": client.EntityID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.EntityID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.EntityID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.EntityID]) == 0 {
					delete(h.clients, client.EntityID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"entity_id": client.EntityID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a toast to every panel watching the entity. A toast without
// an entity id is broadcast to all connected panels.
func (h *Hub) Send(toast notify.Toast) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "toast",
		"data": toast,
	})

	if toast.EntityID == "" {
		h.broadcastLocal(data)
	} else {
		h.sendLocal(toast.EntityID, data)
	}

	if h.rdb != nil {
		target := toast.EntityID
		if target == "" {
			target = "*"
		}
		payload := map[string]interface{}{
			"target_entity_id": target,
			"message":          json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

func (h *Hub) sendLocal(entityID string, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[entityID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// Stalled consumer. The unregister branch owns closing Send.
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"entity_id": entityID})
			h.unregister <- client
		}
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.unregister <- client
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and delivers to the
	// entities it has locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetEntityID string          `json:"target_entity_id"`
			Message        json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetEntityID == "*" {
			h.broadcastLocal(payload.Message)
			continue
		}

		h.sendLocal(payload.TargetEntityID, payload.Message)
	}
}
