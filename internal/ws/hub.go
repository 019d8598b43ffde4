package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// StockUpdate is the payload pushed to connected POS clients whenever
// inventory changes.
type StockUpdate struct {
	Event       string `json:"event"` // movement_applied | transaction_committed | product_created
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	NewStock    int    `json:"new_stock,omitempty"`
	LowStock    bool   `json:"low_stock,omitempty"`
	Reference   string `json:"reference,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// Publish serializes the update and hands it to the broadcast loop
// without blocking the caller. Safe on a nil hub so services can run
// without a websocket layer (e.g. in tests).
func (h *Hub) Publish(update StockUpdate) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(update)
	if err != nil {
		log.Println("ws: failed to marshal stock update:", err)
		return
	}
	go func() { h.Broadcast <- msg }()
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
