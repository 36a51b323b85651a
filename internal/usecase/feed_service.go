package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/orderfeed/internal/cache"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/notify"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/internal/store"
	"github.com/Gunvolt24/orderfeed/internal/stream"
	"github.com/Gunvolt24/orderfeed/internal/warmup"
	"github.com/Gunvolt24/orderfeed/pkg/ctxmeta"
)

var (
	_ ports.FeedService = (*FeedService)(nil)
	_ ports.Runner      = (*FeedService)(nil)
)

// ErrClosed — конвейер остановлен.
var ErrClosed = errors.New("feed service closed")

// Stream — подключение к шине (реализация: stream.Manager).
type Stream interface {
	Connect(id domain.Identity, cb stream.Callbacks) error
	Disconnect()
	Connected() bool
}

// FeedDeps — зависимости конвейера.
type FeedDeps struct {
	Identity    ports.IdentityProvider
	API         ports.OrderAPI
	Cache       ports.Cache
	Loader      *warmup.Loader
	Store       *store.OrderStore
	Queue       *notify.Queue
	Stream      Stream
	Accept      *AcceptCoordinator
	Loop        *EventLoop
	Log         ports.Logger
	AssignedTTL time.Duration
}

// FeedService — конвейер заказов одного пользователя:
// снимок → ворота прогрева → живой поток → уведомления → подтверждение.
type FeedService struct {
	identity    ports.IdentityProvider
	api         ports.OrderAPI
	cache       ports.Cache
	loader      *warmup.Loader
	store       *store.OrderStore
	queue       *notify.Queue
	stream      Stream
	coord       *AcceptCoordinator
	loop        *EventLoop
	log         ports.Logger
	assignedTTL time.Duration

	activateMu sync.Mutex // активации идут строго по одной

	mu       sync.Mutex
	epoch    uint64 // растёт на каждой активации и на Close
	closed   bool
	active   bool
	current  domain.Identity
	lastErr  string
	closeOne sync.Once

	cancelLoad context.CancelFunc // отмена загрузки текущей активации
}

func NewFeedService(deps FeedDeps) *FeedService {
	return &FeedService{
		identity:    deps.Identity,
		api:         deps.API,
		cache:       deps.Cache,
		loader:      deps.Loader,
		store:       deps.Store,
		queue:       deps.Queue,
		stream:      deps.Stream,
		coord:       deps.Accept,
		loop:        deps.Loop,
		log:         deps.Log,
		assignedTTL: deps.AssignedTTL,
	}
}

// Run активирует конвейер и держит его до отмены контекста.
// Ошибка первичной загрузки не фатальна: ворота открыты с пустым baseline.
func (f *FeedService) Run(ctx context.Context) error {
	if err := f.activate(ctx, false); err != nil {
		if !errors.Is(err, warmup.ErrBulkLoad) {
			return err
		}
		f.log.Warnf(ctx, "feed started without snapshot: %v", err)
	}
	<-ctx.Done()
	return f.Close()
}

// Close — идемпотентно.
func (f *FeedService) Close() error {
	f.closeOne.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.epoch++
		f.active = false
		if f.cancelLoad != nil {
			f.cancelLoad()
		}
		f.mu.Unlock()

		f.stream.Disconnect()
		f.log.Infof(context.Background(), "feed service closed")
	})
	return nil
}

// Refresh — принудительная перезагрузка снимка мимо кэша и новое подключение.
func (f *FeedService) Refresh(ctx context.Context) error {
	return f.activate(ctx, true)
}

func (f *FeedService) ChangeServiceArea(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if !domain.ValidServiceArea(code) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidServiceArea, code)
	}
	if err := f.identity.UpdateServiceArea(ctx, code); err != nil {
		return fmt.Errorf("update service area: %w", err)
	}
	f.log.Infof(ctx, "service area changed to %s", code)
	return f.activate(ctx, false)
}

func (f *FeedService) Orders() []domain.Order { return f.store.List() }

func (f *FeedService) Order(orderID string) (domain.Order, bool) { return f.store.Get(orderID) }

func (f *FeedService) Notifications() []domain.Notification { return f.queue.Pending() }

func (f *FeedService) ActiveNotification() (domain.Notification, bool) { return f.queue.Active() }

func (f *FeedService) DismissActive() (domain.Notification, bool) { return f.queue.DismissActive() }

func (f *FeedService) MarkActiveRead() bool { return f.queue.MarkActiveRead() }

// Accept — подтверждение любого заказа из списка (не только активного уведомления).
func (f *FeedService) Accept(ctx context.Context, orderID string) (domain.AcceptResult, error) {
	actor, err := f.actor(ctx)
	if err != nil {
		return domain.AcceptResult{}, err
	}
	return f.coord.Accept(ctx, orderID, actor)
}

func (f *FeedService) AcceptActive(ctx context.Context, orderID string) error {
	actor, err := f.actor(ctx)
	if err != nil {
		return err
	}
	return f.queue.AcceptActive(ctx, orderID, actor)
}

func (f *FeedService) RemoveOrder(ctx context.Context, orderID string) bool {
	removed := f.coord.Remove(ctx, orderID)
	if removed {
		f.invalidatePending(ctx)
	}
	return removed
}

// AssignedOrders — заказы, закреплённые за пользователем; force идёт в API мимо кэша.
func (f *FeedService) AssignedOrders(ctx context.Context, force bool) ([]domain.Order, error) {
	actor, err := f.actor(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.AssignedOrdersKey(actor)
	if !force {
		if v, ok := f.cache.Get(ctx, key); ok {
			if orders, typed := v.([]domain.Order); typed {
				return domain.CloneOrders(orders), nil
			}
		}
	}

	orders, err := f.api.FetchAssignedOrders(ctx, actor)
	if err != nil {
		f.log.Errorf(ctx, "fetch assigned orders failed actor=%s err=%v", actor, err)
		return nil, fmt.Errorf("fetch assigned orders: %w", err)
	}
	f.cache.Set(ctx, key, domain.CloneOrders(orders), f.assignedTTL)
	return orders, nil
}

func (f *FeedService) Status() ports.FeedStatus {
	f.mu.Lock()
	st := ports.FeedStatus{
		UserID:          f.current.UserID,
		ServiceAreaCode: f.current.ServiceAreaCode,
		Active:          f.active,
		LastError:       f.lastErr,
	}
	f.mu.Unlock()

	st.WarmUp = f.loader.State().String()
	st.Connected = f.stream.Connected()
	st.Orders = f.store.Len()
	st.Notifications = f.queue.Len()
	if err := f.loader.LastError(); err != nil {
		st.LastLoadError = err.Error()
	}
	return st
}

// ------вспомогательные функции------

// activate — новая активация: сброс состояния, снимок, затем подключение.
// Подключение стартует только после возврата Load: это и есть ворота прогрева.
// Эпоха поднимается до ожидания activateMu, а загрузка предыдущей активации
// отменяется: её поздний результат отбросит проверка эпохи.
func (f *FeedService) activate(ctx context.Context, force bool) error {
	loadCtx, cancelLoad := context.WithCancel(ctx)
	defer cancelLoad()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.epoch++
	epoch := f.epoch
	f.active = false
	if f.cancelLoad != nil {
		f.cancelLoad()
	}
	f.cancelLoad = cancelLoad
	f.mu.Unlock()

	f.activateMu.Lock()
	defer f.activateMu.Unlock()

	if !f.isCurrent(epoch) {
		return nil
	}

	// события старой сессии отбросит проверка эпохи
	f.stream.Disconnect()
	f.loop.Do(func() {
		f.store.Replace(nil)
		f.queue.Clear()
		f.loader.Reset()
	})

	id, err := f.identity.CurrentUser(ctx)
	if err != nil {
		f.setLastError(epoch, err.Error())
		return fmt.Errorf("current user: %w", err)
	}

	f.mu.Lock()
	if f.epoch == epoch {
		f.current = id
	}
	f.mu.Unlock()

	ctx = ctxmeta.WithServiceArea(ctxmeta.WithActorID(ctx, id.UserID), id.ServiceAreaCode)

	if !id.Ready() {
		f.log.Warnf(ctx, "feed idle: identity not ready user=%q area=%q", id.UserID, id.ServiceAreaCode)
		return nil
	}

	orders, loadErr := f.loader.Load(loadCtx, id, force)
	if !f.isCurrent(epoch) {
		f.log.Infof(ctx, "superseded activation discarded area=%s", id.ServiceAreaCode)
		return nil
	}
	if loadErr != nil && !errors.Is(loadErr, warmup.ErrBulkLoad) {
		return loadErr
	}

	applied := false
	f.loop.Do(func() {
		if !f.isCurrent(epoch) {
			return
		}
		f.store.Replace(orders)
		applied = true
	})
	if !applied {
		f.log.Infof(ctx, "superseded activation discarded area=%s", id.ServiceAreaCode)
		return nil
	}

	if err := f.stream.Connect(id, f.callbacks(epoch, id)); err != nil {
		f.setLastError(epoch, err.Error())
		return fmt.Errorf("stream connect: %w", err)
	}

	f.mu.Lock()
	stale := f.epoch != epoch
	if !stale {
		f.active = true
	}
	f.mu.Unlock()
	if stale {
		// активацию вытеснили между применением снимка и подключением
		f.stream.Disconnect()
		return nil
	}

	f.log.Infof(ctx, "feed activated user=%s area=%s orders=%d force=%t", id.UserID, id.ServiceAreaCode, len(orders), force)
	return loadErr
}

func (f *FeedService) callbacks(epoch uint64, id domain.Identity) stream.Callbacks {
	ctx := ctxmeta.WithServiceArea(ctxmeta.WithActorID(context.Background(), id.UserID), id.ServiceAreaCode)
	return stream.Callbacks{
		OnConnect: func() {
			f.setLastError(epoch, "")
		},
		OnDisconnect: func(err error) {
			if err != nil {
				f.setLastError(epoch, fmt.Sprintf("disconnected: %v", err))
			}
		},
		OnOrdersReceived: func(orders []domain.Order) {
			var added []domain.Order
			notified := 0
			f.loop.Do(func() {
				if !f.isCurrent(epoch) {
					return
				}
				added = f.store.Merge(orders)
				for i := range added {
					if f.loader.State() != warmup.Complete || f.loader.InBaseline(added[i].OrderID) {
						continue
					}
					if f.queue.Notify(added[i]) {
						notified++
					}
				}
			})
			if len(added) > 0 {
				// снимок в кэше больше не отражает текущий список
				f.cache.Delete(ctx, cache.PendingOrdersKey(id.UserID, id.ServiceAreaCode))
				f.log.Infof(ctx, "orders merged received=%d added=%d notified=%d", len(orders), len(added), notified)
			}
		},
		OnStatusUpdate: func(u domain.StatusUpdate) {
			if !u.IsTerminal() {
				return
			}
			removed := false
			f.loop.Do(func() {
				if !f.isCurrent(epoch) {
					return
				}
				removed = f.coord.removeLocked(u.OrderID)
			})
			if removed {
				f.coord.InvalidateActor(ctx, id.UserID)
				f.log.Infof(ctx, "order removed by status order=%s status=%s", u.OrderID, u.Status)
			}
		},
		OnError: func(msg string) {
			f.setLastError(epoch, msg)
		},
	}
}

func (f *FeedService) isCurrent(epoch uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch == epoch && !f.closed
}

func (f *FeedService) setLastError(epoch uint64, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch == epoch {
		f.lastErr = msg
	}
}

func (f *FeedService) actor(ctx context.Context) (string, error) {
	id, err := f.identity.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}
	return id.UserID, nil
}

func (f *FeedService) invalidatePending(ctx context.Context) {
	f.mu.Lock()
	id := f.current
	f.mu.Unlock()
	if id.UserID != "" {
		f.cache.Delete(ctx, cache.PendingOrdersKey(id.UserID, id.ServiceAreaCode))
	}
}
