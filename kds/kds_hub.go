package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

// Event types
const (
	EventOrderCreated    = "order_created"
	EventOrderStatus     = "order_status"
	EventLowStock        = "low_stock"
	EventInventoryUpdate = "inventory_update"
)

const (
	writeWait  = 5 * time.Second
	// pending messages per display before it is dropped as too slow
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub fans kitchen events out to every connected display. Each display has its
// own writer goroutine so a slow screen never holds up the caller. A nil *Hub
// drops events.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds a connection with the role of the user that opened it.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	if h == nil {
		return
	}
	cl := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = cl
	h.mutex.Unlock()
	go h.writePump(cl)
}

// Unregister removes and closes the connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if cl, ok := h.clients[conn]; ok {
		h.remove(cl)
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(cl *client) {
	delete(h.clients, cl.conn)
	close(cl.send)
	cl.conn.Close()
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) writePump(cl *client) {
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error writing to %s client: %v", cl.role, err)
			h.Unregister(cl.conn)
			return
		}
	}
}

// BroadcastOrderCreated announces a new order to the kitchen.
func (h *Hub) BroadcastOrderCreated(order pos.Order) {
	h.Broadcast(Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderStatus announces a status change.
func (h *Hub) BroadcastOrderStatus(order models.Order) {
	h.Broadcast(Message{
		Event: EventOrderStatus,
		Data: map[string]interface{}{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
		},
	})
}

// BroadcastLowStock warns about items at or below their minimum level.
func (h *Hub) BroadcastLowStock(items []models.InventoryItem) {
	if len(items) == 0 {
		return
	}
	h.Broadcast(Message{Event: EventLowStock, Data: items})
}

func (h *Hub) BroadcastInventoryUpdate(item models.InventoryItem) {
	h.Broadcast(Message{Event: EventInventoryUpdate, Data: item})
}

// Broadcast queues msg for every client without waiting on the network.
// Clients whose queue is full are dropped.
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.WithField("clients", len(h.clients)).Debugf("Broadcasting %s", msg.Event)
	for _, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			utils.ErrorLogger.Errorf("Dropping slow %s client, %s not delivered", cl.role, msg.Event)
			h.remove(cl)
		}
	}
}
