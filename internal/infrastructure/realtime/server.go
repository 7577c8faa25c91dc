package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/jhoicas/mousto-pos/pkg/logger"
)

// Authenticator valida el token de la query y devuelve el userID.
type Authenticator func(ctx context.Context, token string) (userID string, err error)

// HealthCheck comprueba dependencias (DB) para /healthz.
type HealthCheck func(ctx context.Context) error

// OpsConfig dependencias del servidor de operaciones.
type OpsConfig struct {
	Addr    string
	Hub     *Hub
	Auth    Authenticator
	Metrics http.Handler // nil = sin /metrics
	Health  HealthCheck  // nil = siempre ok
	Log     *logger.Logger
}

// NewOpsRouter rutas: GET /realtime, GET /metrics, GET /healthz.
func NewOpsRouter(cfg OpsConfig) *mux.Router {
	r := mux.NewRouter()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	r.HandleFunc("/realtime", func(w http.ResponseWriter, req *http.Request) {
		userID, err := cfg.Auth(req.Context(), req.URL.Query().Get("token"))
		if err != nil || userID == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "UNAUTHORIZED", "message": "token invalide ou expiré"})
			return
		}
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			cfg.Log.Warn().Err(err).Msg("realtime: upgrade fallido")
			return
		}
		c := newClient(cfg.Hub, conn, userID, ParseTables(req.URL.Query().Get("tables")))
		if !cfg.Hub.add(c) {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			_ = conn.Close()
			return
		}
		cfg.Log.Debug().Str("user_id", userID).Msg("realtime: cliente conectado")
		go c.writePump()
		go c.readPump()
	}).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Health(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}

// NewOpsServer servidor HTTP del router de operaciones.
func NewOpsServer(cfg OpsConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewOpsRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
