package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	tableID string
}

// Hub fans engine events out to websocket subscribers. A client that
// supplies a tableId query parameter receives only that table's events;
// otherwise it receives everything.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

// Run consumes the engine event stream until it is exhausted.
func (h *Hub) Run(events <-chan models.Event) {
	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			h.log.WithError(err).Warn("failed to encode event")
			continue
		}
		h.mu.RLock()
		for c := range h.clients {
			if c.tableID != "" && c.tableID != event.TableID {
				continue
			}
			select {
			case c.send <- data:
			default:
				// Slow consumer; drop rather than stall the hub.
			}
		}
		h.mu.RUnlock()
	}
}

// HandleWS upgrades the connection and subscribes it to events.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	cl := &client{
		conn:    conn,
		send:    make(chan []byte, 64),
		tableID: c.Query("tableId"),
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go h.writePump(cl)
	go h.readPump(cl)
}

func (h *Hub) writePump(cl *client) {
	for data := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	cl.conn.Close()
}

// readPump exists only to detect disconnects; clients talk to the engine
// over HTTP, not over the socket.
func (h *Hub) readPump(cl *client) {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	close(cl.send)
}
