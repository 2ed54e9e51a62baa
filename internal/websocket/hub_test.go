package websocket

import (
	"testing"
	"time"

	"pm-assist-be/pkg/notify"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (h *Hub) hasClients(entityID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[entityID]
	return ok
}

func TestHubDropsStalledClient(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	client := &Client{Hub: h, EntityID: "project-1", Send: make(chan []byte, 1)}
	h.register <- client
	assert.Eventually(t, func() bool { return h.hasClients("project-1") }, time.Second, 5*time.Millisecond)

	// First toast fills the buffer, second hits a stalled consumer. The hub
	// must drop the client and close Send exactly once.
	h.Send(notify.Toast{EntityID: "project-1", Message: "first"})
	h.Send(notify.Toast{EntityID: "project-1", Message: "second"})

	assert.Eventually(t, func() bool { return !h.hasClients("project-1") }, time.Second, 5*time.Millisecond)

	<-client.Send // buffered message
	_, open := <-client.Send
	assert.False(t, open, "Send should be closed after unregister")
}

func TestHubBroadcastDropsStalledClient(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	stalled := &Client{Hub: h, EntityID: "project-1", Send: make(chan []byte, 1)}
	healthy := &Client{Hub: h, EntityID: "project-2", Send: make(chan []byte, 8)}
	h.register <- stalled
	h.register <- healthy
	assert.Eventually(t, func() bool {
		return h.hasClients("project-1") && h.hasClients("project-2")
	}, time.Second, 5*time.Millisecond)

	h.Send(notify.Toast{Message: "one"})
	h.Send(notify.Toast{Message: "two"})

	assert.Eventually(t, func() bool { return !h.hasClients("project-1") }, time.Second, 5*time.Millisecond)
	assert.True(t, h.hasClients("project-2"))

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy client did not receive the broadcast")
	}
}
