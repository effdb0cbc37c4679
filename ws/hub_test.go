package ws

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil, nil, nil, testLogger())
	hub.Register(client)
	waitForCount(t, hub, 1)

	hub.Unregister(client)
	waitForCount(t, hub, 0)

	// The hub closed the send channel on unregister.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("send channel delivered a value instead of closing")
		}
	case <-time.After(time.Second):
		t.Error("send channel not closed after unregister")
	}
}

func TestHubStopClosesAllClients(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	first := NewClient(hub, nil, nil, nil, testLogger())
	second := NewClient(hub, nil, nil, nil, testLogger())
	hub.Register(first)
	hub.Register(second)
	waitForCount(t, hub, 2)

	hub.Stop()
	waitForCount(t, hub, 0)

	// Register after stop must not block.
	done := make(chan struct{})
	go func() {
		hub.Register(NewClient(hub, nil, nil, nil, testLogger()))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Register blocked after Stop")
	}
}
