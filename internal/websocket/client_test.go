package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cubie-assistant/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeConn struct {
	inbound chan []byte

	mu      sync.Mutex
	written [][]byte
	closed  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 8)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.inbound
	if !ok {
		return 0, nil, errors.New("eof")
	}
	return websocket.TextMessage, data, nil
}

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == websocket.TextMessage {
		f.written = append(f.written, data)
	}
	return nil
}

func (f *fakeConn) frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.written...)
}

func (f *fakeConn) SetReadLimit(int64) {}
func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func echo(_ context.Context, userID string, payload []byte) []byte {
	out, _ := json.Marshal(Frame{Type: "reply", Data: map[string]string{"user": userID, "echo": string(payload)}})
	return out
}

func TestClient_ServeAnswersEachFrame(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil, logger.NewNopLogger())
	conn := newFakeConn()
	client := NewClient(hub, conn, "u-1", echo, logger.NewNopLogger())

	served := make(chan struct{})
	go func() {
		client.Serve(context.Background())
		close(served)
	}()

	conn.inbound <- []byte(`{"question":"hi"}`)
	conn.inbound <- []byte(`{"question":"top carriers"}`)

	require.Eventually(t, func() bool { return len(conn.frames()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.ConnectedUsers())

	var first Frame
	require.NoError(t, json.Unmarshal(conn.frames()[0], &first))
	assert.Equal(t, "reply", first.Type)

	close(conn.inbound)
	<-served
	assert.True(t, conn.closed)
	assert.Equal(t, 0, hub.ConnectedUsers())
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	var wg sync.WaitGroup
	for i, conn := range conns {
		client := NewClient(hub, conn, []string{"u-1", "u-2"}[i], echo, logger.NewNopLogger())
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Serve(ctx)
		}()
	}
	require.Eventually(t, func() bool { return hub.ConnectedUsers() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("DISPUTE_STATUS_CHANGED", map[string]interface{}{"dispute_id": 1001})
	for _, conn := range conns {
		conn := conn
		require.Eventually(t, func() bool { return len(conn.frames()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Contains(t, string(conn.frames()[0]), "DISPUTE_STATUS_CHANGED")
	}

	cancel()
	for _, conn := range conns {
		close(conn.inbound)
	}
	wg.Wait()
	<-hubDone
}
