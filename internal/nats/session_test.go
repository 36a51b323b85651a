package nats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

type fakeConn struct {
	mu        sync.Mutex
	connected bool
	subs      map[string]nats.MsgHandler
	published map[string][]byte
	closed    int
	pubErr    error
}

func newFakeConn(connected bool) *fakeConn {
	return &fakeConn{connected: connected, subs: map[string]nats.MsgHandler{}, published: map[string][]byte{}}
}

func (c *fakeConn) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[subj] = cb
	return nil, nil
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubErr != nil {
		return c.pubErr
	}
	c.published[subj] = data
	return nil
}

func (c *fakeConn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

// newTestFactory возвращает фабрику с подменённым подключением и собранные опции клиента.
func newTestFactory(fc *fakeConn, connErr error) (*SessionFactory, *nats.Options) {
	f := NewSessionFactory(Config{URL: "nats://test:4222", Name: "orderfeed", ReconnectDelay: 3 * time.Second}, nopLogger{})
	opts := nats.GetDefaultOptions()
	f.connect = func(_ string, options ...nats.Option) (conn, error) {
		for _, o := range options {
			if err := o(&opts); err != nil {
				return nil, err
			}
		}
		if connErr != nil {
			return nil, connErr
		}
		return fc, nil
	}
	return f, &opts
}

func TestOpen_ConfiguresFixedDelayUnlimitedReconnect(t *testing.T) {
	f, opts := newTestFactory(newFakeConn(true), nil)
	sess, err := f.Open(context.Background(), ports.SessionHandlers{})
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, 3*time.Second, opts.ReconnectWait)
	assert.Equal(t, -1, opts.MaxReconnect)
	assert.True(t, opts.RetryOnFailedConnect)
	assert.Equal(t, "orderfeed", opts.Name)
}

func TestOpen_ConnectError(t *testing.T) {
	f, _ := newTestFactory(nil, errors.New("bad url"))
	_, err := f.Open(context.Background(), ports.SessionHandlers{})
	require.Error(t, err)
}

func TestOpen_OnConnectFiresOnce(t *testing.T) {
	f, opts := newTestFactory(newFakeConn(true), nil)

	var mu sync.Mutex
	calls := 0
	connected := make(chan struct{}, 2)
	sess, err := f.Open(context.Background(), ports.SessionHandlers{OnConnect: func() {
		mu.Lock()
		calls++
		mu.Unlock()
		connected <- struct{}{}
	}})
	require.NoError(t, err)
	defer sess.Close()

	// и клиент, и Open могут сообщить о первом подключении
	opts.ConnectedCB(nil)

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatalf("OnConnect was not called")
	}
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestOpen_DeferredConnectWhenServerDown(t *testing.T) {
	f, opts := newTestFactory(newFakeConn(false), nil)

	connected := make(chan struct{}, 1)
	sess, err := f.Open(context.Background(), ports.SessionHandlers{OnConnect: func() { connected <- struct{}{} }})
	require.NoError(t, err)
	defer sess.Close()

	select {
	case <-connected:
		t.Fatalf("OnConnect must wait for the client")
	case <-time.After(20 * time.Millisecond):
	}

	opts.ConnectedCB(nil)
	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatalf("OnConnect was not called")
	}
}

func TestHandlers_ReconnectDisconnectError(t *testing.T) {
	f, opts := newTestFactory(newFakeConn(false), nil)

	var events []string
	sess, err := f.Open(context.Background(), ports.SessionHandlers{
		OnReconnect:  func() { events = append(events, "up") },
		OnDisconnect: func(error) { events = append(events, "down") },
		OnError:      func(error) { events = append(events, "err") },
	})
	require.NoError(t, err)

	opts.DisconnectedErrCB(nil, errors.New("eof"))
	opts.ReconnectedCB(nil)
	opts.AsyncErrorCB(nil, nil, errors.New("slow consumer"))
	assert.Equal(t, []string{"down", "up", "err"}, events)

	require.NoError(t, sess.Close())
	// после Close клиент ещё может прислать DisconnectErr — он не пробрасывается
	opts.DisconnectedErrCB(nil, nil)
	assert.Len(t, events, 3)
}

func TestSession_SubscribePublishClose(t *testing.T) {
	fc := newFakeConn(true)
	f, _ := newTestFactory(fc, nil)
	sess, err := f.Open(context.Background(), ports.SessionHandlers{})
	require.NoError(t, err)

	got := make(chan []byte, 1)
	require.NoError(t, sess.Subscribe("orders-for-area/560001", func(p []byte) { got <- p }))

	fc.mu.Lock()
	h := fc.subs["orders-for-area.560001"]
	fc.mu.Unlock()
	require.NotNil(t, h)
	h(&nats.Msg{Data: []byte(`{"orderId":"a"}`)})
	assert.Equal(t, `{"orderId":"a"}`, string(<-got))

	require.NoError(t, sess.Publish("orders/request-current", []byte(`{}`)))
	assert.Equal(t, []byte(`{}`), fc.published["orders.request-current"])

	fc.pubErr = errors.New("conn closed")
	require.Error(t, sess.Publish("orders/request-current", []byte(`{}`)))

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
	assert.Equal(t, 1, fc.closed)
	require.Error(t, sess.Subscribe("x", func([]byte) {}))
	require.Error(t, sess.Publish("x", nil))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "user.u1.status", Subject("user/u1/status"))
	assert.Equal(t, "orders.request-current", Subject("/orders/request-current/"))
}
