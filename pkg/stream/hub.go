// Package stream publishes flock snapshots to websocket subscribers so an
// external renderer can draw the simulation.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 4
)

// TypeSnapshot is the message type of every frame sent by the hub.
const TypeSnapshot = "snapshot"

type snapshotMessage struct {
	Type       string               `json:"type"`
	ServerTime int64                `json:"serverTime"`
	Snapshot   *simulation.Snapshot `json:"snapshot"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans snapshots out to every connected subscriber. A subscriber that
// falls sendBuffer frames behind is disconnected.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	latest      []byte
	nextID      atomic.Uint64
	sent        atomic.Uint64
	logger      log.Logger
}

func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      logger,
	}
}

// Subscribe registers conn and starts its writer. The latest frame, if
// any, is queued first so a new client never starts on a blank screen.
func (h *Hub) Subscribe(conn *websocket.Conn) string {
	id := fmt.Sprintf("client-%d", h.nextID.Add(1))
	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.subscribers[id] = sub
	if h.latest != nil {
		sub.send <- h.latest
	}
	h.mu.Unlock()

	go h.writeLoop(id, sub)
	h.logger.Infof("%s subscribed", id)
	return id
}

// Unsubscribe removes the subscriber and closes its connection.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		sub.close()
		h.logger.Infof("%s unsubscribed", id)
	}
}

func (h *Hub) writeLoop(id string, sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warnf("failed to send snapshot to %s: %v", id, err)
			h.Unsubscribe(id)
			// drain so Broadcast never blocks on a dead client
			for range sub.send {
			}
			return
		}
		h.sent.Add(1)
	}
	sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Broadcast encodes snap once and queues it for every subscriber.
func (h *Hub) Broadcast(snap *simulation.Snapshot) error {
	data, err := json.Marshal(snapshotMessage{
		Type:       TypeSnapshot,
		ServerTime: time.Now().UnixMilli(),
		Snapshot:   snap,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var slow []string
	h.mu.Lock()
	h.latest = data
	for id, sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.Unlock()

	for _, id := range slow {
		h.logger.Warnf("%s is too slow, disconnecting", id)
		h.Unsubscribe(id)
	}
	return nil
}

// Run broadcasts every snapshot received until ctx is done or snapshots is
// closed, then disconnects all subscribers.
func (h *Hub) Run(ctx context.Context, snapshots <-chan *simulation.Snapshot) {
	defer h.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := h.Broadcast(snap); err != nil {
				h.logger.Errorf("broadcast failed: %v", err)
			}
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.Unsubscribe(id)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Sent counts frames written to subscribers.
func (h *Hub) Sent() uint64 { return h.sent.Load() }
