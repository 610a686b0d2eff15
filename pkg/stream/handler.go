package stream

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tochemey/goakt/v3/log"
)

// Handler upgrades HTTP requests to websocket subscriptions on a Hub.
type Handler struct {
	hub      *Hub
	logger   log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP holds the connection open until the client goes away. Clients
// only listen; anything they send is discarded.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	id := h.hub.Subscribe(conn)
	defer h.hub.Unsubscribe(id)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// NewMux serves the stream on /ws and a liveness check on /healthz.
func NewMux(hub *Hub, logger log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", NewHandler(hub, logger))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
