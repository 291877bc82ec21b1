package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("connection reset")
	}
	cp := append([]byte(nil), data...)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

func TestHub_BroadcastDeliversToEveryRegisteredConnection(t *testing.T) {
	hub := NewHub()
	conns := make([]*fakeConn, 3)
	for i := range conns {
		conns[i] = &fakeConn{}
		hub.Register(conns[i])
	}
	outsider := &fakeConn{}

	hub.Broadcast(map[string]string{"action": "message"})

	for i, c := range conns {
		if got := len(c.received()); got != 1 {
			t.Errorf("conn %d: expected exactly 1 delivery, got %d", i, got)
		}
	}
	if len(outsider.received()) != 0 {
		t.Error("unregistered connection must not receive broadcasts")
	}
}

func TestHub_BroadcastPayloadIsExact(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Register(c)

	payload := map[string]any{"action": "message", "data": map[string]any{"content": "hi"}}
	hub.Broadcast(payload)

	frames := c.received()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	var got map[string]any
	if err := json.Unmarshal(frames[0], &got); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	data, _ := got["data"].(map[string]any)
	if got["action"] != "message" || data["content"] != "hi" {
		t.Errorf("payload altered in flight: %s", frames[0])
	}
}

func TestHub_SendFailureIsIsolated(t *testing.T) {
	hub := NewHub()
	bad := &fakeConn{fail: true}
	good := &fakeConn{}
	hub.Register(bad)
	hub.Register(good)

	hub.Broadcast("ping")

	if len(good.received()) != 1 {
		t.Error("failure on one connection blocked delivery to another")
	}
	// the failing connection stays registered
	if hub.Len() != 2 {
		t.Errorf("expected 2 registered connections, got %d", hub.Len())
	}
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	id := hub.Register(c)

	hub.Unregister(id)
	hub.Unregister(id)
	hub.Unregister("never-registered")

	if hub.Len() != 0 {
		t.Errorf("expected empty hub, got %d", hub.Len())
	}
	hub.Broadcast("ping")
	if len(c.received()) != 0 {
		t.Error("unregistered connection received a broadcast")
	}
}

func TestHub_SendTo(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	idA := hub.Register(a)
	hub.Register(b)

	hub.SendTo(idA, "direct")
	hub.SendTo("unknown", "direct")

	if len(a.received()) != 1 {
		t.Errorf("expected 1 direct delivery, got %d", len(a.received()))
	}
	if len(b.received()) != 0 {
		t.Error("direct send leaked to another connection")
	}
}
