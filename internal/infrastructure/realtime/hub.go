// Package realtime difunde los cambios confirmados a clientes websocket.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

// ClientGauge recibe el número de conexiones abiertas (métricas). Opcional.
type ClientGauge interface {
	SetRealtimeClients(n int)
}

var (
	_ ports.ChangePublisher = (*Hub)(nil)
	_ ports.SessionRevoker  = (*Hub)(nil)
)

// Hub registro de clientes y fan-out de eventos.
// Publish nunca bloquea: un cliente con el buffer lleno se desconecta.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	log     *logger.Logger
	gauge   ClientGauge
}

// NewHub construye el hub. gauge puede ser nil.
func NewHub(log *logger.Logger, gauge ClientGauge) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
		gauge:   gauge,
	}
}

// Publish serializa el evento una vez y lo encola en cada cliente interesado.
func (h *Hub) Publish(_ context.Context, ev ports.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn().Err(err).Str("table", ev.Table).Msg("realtime: evento no serializable")
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Str("user_id", c.userID).Msg("realtime: cliente lento desconectado")
		h.remove(c)
	}
}

// DisconnectUser cierra todas las conexiones de userID (perfil bloqueado o eliminado).
func (h *Hub) DisconnectUser(userID string) {
	h.mu.Lock()
	dropped := 0
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		delete(h.clients, c)
		close(c.send)
		dropped++
	}
	n := len(h.clients)
	h.mu.Unlock()
	if dropped == 0 {
		return
	}
	h.report(n)
	h.log.Info().Str("user_id", userID).Int("connections", dropped).Msg("realtime: sesiones revocadas")
}

// ClientCount conexiones registradas.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close desconecta a todos los clientes; los registros posteriores se rechazan.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.report(0)
}

func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.report(n)
	return true
}

// remove es idempotente: solo quien lo saca del mapa cierra send.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.report(n)
}

func (h *Hub) report(n int) {
	if h.gauge != nil {
		h.gauge.SetRealtimeClients(n)
	}
}
