package hub

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gorilla "github.com/gorilla/websocket"

	"github.com/teslashibe/go-avatar/pkg/protocol"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startServer(t *testing.T, h *Hub) string {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		NewClient(h, c).Run()
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/ws"
}

func TestNew(t *testing.T) {
	h := New("test")

	if h.ClientCount() != 0 {
		t.Error("ClientCount should be 0 initially")
	}
	if h.IsRunning() {
		t.Error("hub should not run before Run")
	}
}

func TestHub_BroadcastsToClients(t *testing.T) {
	h := New("status")
	go h.Run()
	defer h.Stop()

	url := startServer(t, h)
	ws, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	waitFor(t, "client registration", func() bool { return h.ClientCount() == 1 })

	msg, _ := protocol.NewTransitionMessage("a1", "init", "grounded")
	if err := h.BroadcastProtocol(msg); err != nil {
		t.Fatalf("BroadcastProtocol: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	parsed, err := protocol.ParseMessage(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Type != protocol.TypeTransition {
		t.Errorf("type = %v, want transition", parsed.Type)
	}

	if err := h.BroadcastJSON(map[string]string{"hello": "world"}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}
	_, data, err = ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "world") {
		t.Errorf("message = %s", data)
	}

	ws.Close()
	waitFor(t, "client removal", func() bool { return h.ClientCount() == 0 })
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	h := New("status")
	go h.Run()

	url := startServer(t, h)
	ws, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	waitFor(t, "client registration", func() bool { return h.ClientCount() == 1 })

	h.Stop()
	h.Stop()

	waitFor(t, "hub stop", func() bool { return !h.IsRunning() })
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d after Stop", h.ClientCount())
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("expected the connection to close")
	}
}

func TestHub_DropsWhenQueueFull(t *testing.T) {
	h := New("idle")

	for i := 0; i < cap(h.broadcast)+3; i++ {
		h.Broadcast(NewJSONMessage([]byte(`{}`)))
	}

	if got := h.Dropped(); got != 3 {
		t.Errorf("Dropped = %d, want 3", got)
	}
}

func TestHub_BroadcastJSONError(t *testing.T) {
	h := New("status")
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("expected an encoding error")
	}
}
