package realtime

import (
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Client conexión websocket de un usuario autenticado.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	tables map[string]bool // vacío = todas
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, tables map[string]bool) *Client {
	return &Client{hub: hub, conn: conn, userID: userID, tables: tables, send: make(chan []byte, sendBuffer)}
}

// ParseTables "products, sales" -> set; cadena vacía -> nil (todas).
func ParseTables(raw string) map[string]bool {
	var out map[string]bool
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if out == nil {
			out = make(map[string]bool)
		}
		out[t] = true
	}
	return out
}

func (c *Client) wants(ev ports.ChangeEvent) bool {
	if ev.UserID != "" && ev.UserID != c.userID {
		return false
	}
	return len(c.tables) == 0 || c.tables[ev.Table]
}

// readPump solo atiende pongs y detecta el cierre; los mensajes del cliente se ignoran.
func (c *Client) readPump() {
	defer c.hub.remove(c)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
