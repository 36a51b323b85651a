package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/orderfeed/internal/cache/memory"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/identity"
	"github.com/Gunvolt24/orderfeed/internal/notify"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/internal/ports/mocks"
	"github.com/Gunvolt24/orderfeed/internal/store"
	"github.com/Gunvolt24/orderfeed/internal/stream"
	"github.com/Gunvolt24/orderfeed/internal/usecase"
	"github.com/Gunvolt24/orderfeed/internal/warmup"
)

const (
	userID = "u1"
	area   = "560001"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// fakeStream запоминает колбэки каждого Connect; тест вызывает их сам.
type fakeStream struct {
	mu          sync.Mutex
	connects    []domain.Identity
	cbs         []stream.Callbacks
	disconnects int
	connected   bool
	connectErr  error
}

func (s *fakeStream) Connect(id domain.Identity, cb stream.Callbacks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connects = append(s.connects, id)
	s.cbs = append(s.cbs, cb)
	s.connected = true
	return nil
}

func (s *fakeStream) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	s.connected = false
}

func (s *fakeStream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// last — колбэки последнего подключения.
func (s *fakeStream) last(t *testing.T) stream.Callbacks {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cbs) == 0 {
		t.Fatalf("stream was never connected")
	}
	return s.cbs[len(s.cbs)-1]
}

func (s *fakeStream) connectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connects)
}

type fixture struct {
	api    *mocks.MockOrderAPI
	ident  *identity.Static
	cache  *memory.TTLCache
	store  *store.OrderStore
	queue  *notify.Queue
	stream *fakeStream
	coord  *usecase.AcceptCoordinator
	feed   *usecase.FeedService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithIdentity(t, nil)
}

// newFixtureWithIdentity — idp == nil: статический пользователь u1 в зоне 560001.
func newFixtureWithIdentity(t *testing.T, idp ports.IdentityProvider) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	fx := &fixture{
		api:    mocks.NewMockOrderAPI(ctrl),
		ident:  identity.NewStatic(userID, area),
		cache:  memory.NewTTLCache(time.Minute),
		store:  store.NewOrderStore(),
		queue:  notify.NewQueue(),
		stream: &fakeStream{},
	}
	if idp == nil {
		idp = fx.ident
	}

	log := noopLogger{}
	loop := usecase.NewEventLoop()
	fx.coord = usecase.NewAcceptCoordinator(fx.api, fx.store, fx.queue, fx.cache, loop, log)
	fx.queue.BindAcceptor(fx.coord)
	fx.feed = usecase.NewFeedService(usecase.FeedDeps{
		Identity:    idp,
		API:         fx.api,
		Cache:       fx.cache,
		Loader:      warmup.NewLoader(fx.api, fx.cache, log, time.Minute),
		Store:       fx.store,
		Queue:       fx.queue,
		Stream:      fx.stream,
		Accept:      fx.coord,
		Loop:        loop,
		Log:         log,
		AssignedTTL: time.Minute,
	})
	return fx
}

func orders(ids ...string) []domain.Order {
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Order{OrderID: id})
	}
	return out
}

func ids(list []domain.Order) []string {
	out := make([]string, 0, len(list))
	for i := range list {
		out = append(out, list[i].OrderID)
	}
	return out
}

func notificationIDs(list []domain.Notification) []string {
	out := make([]string, 0, len(list))
	for i := range list {
		out = append(out, list[i].OrderID())
	}
	return out
}
