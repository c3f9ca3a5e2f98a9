package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	failing bool
	closed  bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := New()
	a, b := &fakeConn{}, &fakeConn{}
	h.Register(a, "staff")
	h.Register(b, "admin")

	require.NoError(t, h.Broadcast(Message{Event: EventReservationCreated, Data: map[string]int{"id": 7}}))

	for _, c := range []*fakeConn{a, b} {
		require.Len(t, c.written, 1)
		var msg struct {
			Event string         `json:"event"`
			Data  map[string]int `json:"data"`
		}
		require.NoError(t, json.Unmarshal(c.written[0], &msg))
		assert.Equal(t, EventReservationCreated, msg.Event)
		assert.Equal(t, 7, msg.Data["id"])
	}
}

func TestBroadcastDropsFailingClient(t *testing.T) {
	h := New()
	good, bad := &fakeConn{}, &fakeConn{failing: true}
	h.Register(good, "staff")
	h.Register(bad, "staff")

	require.NoError(t, h.Broadcast(Message{Event: EventTableUpdate}))

	assert.Equal(t, 1, h.ClientCount())
	assert.True(t, bad.closed)
	assert.False(t, good.closed)
}

func TestUnregisterClosesConnection(t *testing.T) {
	h := New()
	c := &fakeConn{}
	h.Register(c, "admin")
	h.Unregister(c)

	assert.Equal(t, 0, h.ClientCount())
	assert.True(t, c.closed)
}
