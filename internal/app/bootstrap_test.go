package app_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/config"
	"github.com/Gunvolt24/orderfeed/internal/app"
	"github.com/Gunvolt24/orderfeed/internal/kafka"
	"github.com/Gunvolt24/orderfeed/internal/nats"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый конвейер: ждёт отмены контекста или возвращает заданную ошибку
type fakeFeed struct {
	runErr     error
	runCalls   int32
	closeCalls int32
}

func (f *fakeFeed) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeFeed) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

func newServer() *http.Server {
	return &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux(), ReadHeaderTimeout: time.Second}
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	ff := &fakeFeed{}
	a := &app.App{Logger: nopLogger{}, HTTPServer: newServer(), Feed: ff}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ff.runCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ff.closeCalls))
}

func TestAppRun_FeedErrorStopsApp(t *testing.T) {
	boom := errors.New("no user configured")
	ff := &fakeFeed{runErr: boom}
	a := &app.App{Logger: nopLogger{}, HTTPServer: newServer(), Feed: ff}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.Run(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ff.closeCalls))
}

func TestNewSessionFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver  string
		wantErr bool
		check   func(t *testing.T, f any)
	}{
		{"nats", false, func(t *testing.T, f any) { assert.IsType(t, &nats.SessionFactory{}, f) }},
		{" KAFKA ", false, func(t *testing.T, f any) { assert.IsType(t, &kafka.SessionFactory{}, f) }},
		{"amqp", true, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.driver, func(t *testing.T) {
			t.Parallel()
			cfg := &config.Config{Bus: config.Bus{Driver: tt.driver, ReconnectDelay: time.Second}}
			f, err := app.NewSessionFactory(cfg, nopLogger{})
			if tt.wantErr {
				require.ErrorIs(t, err, app.ErrUnknownDriver)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestBootstrap_AssemblesWithoutNetwork(t *testing.T) {
	cfg, err := config.LoadWithPrefix("ORDER_TEST_BOOTSTRAP")
	require.NoError(t, err)
	cfg.HTTP.GinMode = "test"
	cfg.Identity = config.Identity{UserID: "u1", ServiceArea: "560001"}

	a, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, a.HTTPServer)
	require.NotNil(t, a.Feed)
	assert.Equal(t, ":8080", a.HTTPServer.Addr)
}

func TestBootstrap_UnknownDriver(t *testing.T) {
	cfg, err := config.LoadWithPrefix("ORDER_TEST_BOOTSTRAP_BAD")
	require.NoError(t, err)
	cfg.Bus.Driver = "carrier-pigeon"

	_, cleanup, err := app.Bootstrap(context.Background(), &cfg)
	defer cleanup()
	require.ErrorIs(t, err, app.ErrUnknownDriver)
}
