package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
)

// OrderEvent is pushed to connected admin dashboards whenever an order
// is placed or changes state.
type OrderEvent struct {
	Type        string    `json:"type"` // order_created, order_status_changed
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Total       string    `json:"total"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Client is one connected admin session.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans order events out to every connected admin client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes registrations and broadcasts. Call once in its own
// goroutine at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Order feed client connected", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Order feed client disconnected", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// A slow consumer never blocks the hub.
					logger.Warn("Dropping order event for slow client", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount reports the currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastEvent(event OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Order event queue full, dropping event", map[string]interface{}{
			"order_id": event.OrderID,
		})
	}
}

// NotifyOrderCreated implements the order service's notifier hook.
func (h *Hub) NotifyOrderCreated(order *model.Order) {
	h.broadcastEvent(OrderEvent{
		Type:        "order_created",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.Name,
		Total:       order.TotalAmount.String(),
		Email:       order.Email,
		OccurredAt:  time.Now(),
	})
}

// NotifyOrderStatusChanged implements the order service's notifier hook.
func (h *Hub) NotifyOrderStatusChanged(order *model.Order) {
	h.broadcastEvent(OrderEvent{
		Type:        "order_status_changed",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.Name,
		Total:       order.TotalAmount.String(),
		Email:       order.Email,
		OccurredAt:  time.Now(),
	})
}
