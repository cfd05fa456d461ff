package ws

import (
	"encoding/json"

	"go-inventory-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// StockEvent is broadcast to every connected client whenever a product's
// stock quantity is observed to change.
type StockEvent struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
	ChangedBy string `json:"changed_by"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 16),
	}
}

// BroadcastEvent queues a stock event without blocking the caller; if the
// hub is saturated the event is dropped. The feed is best-effort and must
// never delay an HTTP response.
func (h *Hub) BroadcastEvent(event StockEvent) {
	event.Type = "stock_update"
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.GetLogger().Warn("ws broadcast dropped", zap.String("action", event.Action))
	}
}

func (h *Hub) Run() {
	log := logger.GetLogger()
	for {
		select {
		case conn := <-h.Register:
			h.Clients[conn] = true
			log.Info("ws client connected", zap.Int("clients", len(h.Clients)))

		case conn := <-h.Unregister:
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}

		case message := <-h.Broadcast:
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
		}
	}
}
