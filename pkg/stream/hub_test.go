package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	srv := httptest.NewServer(NewMux(hub, nil))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	var msg snapshotMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if msg.Type != TypeSnapshot {
		t.Fatalf("message type = %q; want %q", msg.Type, TypeSnapshot)
	}
	return msg
}

func waitSubscribers(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d subscribers; want %d", hub.Len(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func snapshotAt(tick uint64) *simulation.Snapshot {
	return &simulation.Snapshot{
		Tick:  tick,
		Radii: simulation.ZoneRadii{Repulsion: 5, Alignment: 9, Attraction: 50},
		Agents: []flock.AgentSnapshot{{
			ID:       "b1",
			Position: geometry.NewVector(1, 2, 3),
			Heading:  geometry.Forward,
			State:    "idle",
			Links:    []flock.Link{{ID: "b2", Zone: flock.ZoneAlignment}},
		}},
	}
}

func TestHub_NewClientGetsLatestSnapshot(t *testing.T) {
	hub, srv := newTestServer(t)
	if err := hub.Broadcast(snapshotAt(7)); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	conn := dial(t, srv)
	msg := readSnapshot(t, conn)
	if msg.Snapshot.Tick != 7 {
		t.Errorf("tick = %d; want 7", msg.Snapshot.Tick)
	}
	if len(msg.Snapshot.Agents) != 1 || msg.Snapshot.Agents[0].Position != geometry.NewVector(1, 2, 3) {
		t.Errorf("agents = %+v", msg.Snapshot.Agents)
	}
	if links := msg.Snapshot.Agents[0].Links; len(links) != 1 || links[0].Zone != flock.ZoneAlignment {
		t.Errorf("links = %+v; want one alignment link", links)
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, srv := newTestServer(t)
	a, b := dial(t, srv), dial(t, srv)
	waitSubscribers(t, hub, 2)

	for tick := uint64(1); tick <= 3; tick++ {
		if err := hub.Broadcast(snapshotAt(tick)); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
	}
	for name, conn := range map[string]*websocket.Conn{"a": a, "b": b} {
		for want := uint64(1); want <= 3; want++ {
			if got := readSnapshot(t, conn).Snapshot.Tick; got != want {
				t.Errorf("client %s: tick = %d; want %d", name, got, want)
			}
		}
	}
}

func TestHub_DisconnectedClientIsRemoved(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	waitSubscribers(t, hub, 1)

	conn.Close()
	waitSubscribers(t, hub, 0)
}

func TestHub_CloseEndsClientStream(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	waitSubscribers(t, hub, 1)

	hub.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after Close = %v; want a normal close", err)
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	// a subscriber without a writer never drains its queue
	hub.subscribers["stuck"] = &subscriber{send: make(chan []byte, sendBuffer)}

	for i := 0; i < sendBuffer; i++ {
		hub.Broadcast(snapshotAt(uint64(i)))
	}
	if hub.Len() != 1 {
		t.Fatalf("subscriber dropped before its queue was full")
	}
	hub.Broadcast(snapshotAt(99))
	if hub.Len() != 0 {
		t.Errorf("slow subscriber still registered")
	}
}

func TestHub_RunStopsWhenChannelCloses(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	waitSubscribers(t, hub, 1)

	snapshots := make(chan *simulation.Snapshot, 1)
	done := make(chan struct{})
	go func() {
		hub.Run(t.Context(), snapshots)
		close(done)
	}()

	snapshots <- snapshotAt(42)
	if got := readSnapshot(t, conn).Snapshot.Tick; got != 42 {
		t.Errorf("tick = %d; want 42", got)
	}
	close(snapshots)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the channel closed")
	}
	waitSubscribers(t, hub, 0)
}

func TestMux_Healthz(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}
