// Package warmup — первичная загрузка заказов и «ворота» прогрева.
// Пока загрузка не завершилась, конвейер не подключается к шине;
// заказы из первичного снимка (baseline) не порождают уведомлений.
package warmup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Gunvolt24/orderfeed/internal/cache"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
)

var (
	ErrBulkLoad       = errors.New("bulk load failed")
	ErrAlreadyStarted = errors.New("warm-up already started")
)

// State — состояние ворот прогрева.
type State int32

const (
	NotStarted State = iota
	Loading
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

var tracer = otel.Tracer("github.com/Gunvolt24/orderfeed/internal/warmup")

// Loader загружает снимок ожидающих заказов один раз за активацию.
type Loader struct {
	api   ports.OrderAPI
	cache ports.Cache
	log   ports.Logger
	ttl   time.Duration

	mu       sync.Mutex
	state    State
	gen      uint64 // растёт на каждом Reset
	baseline map[string]struct{}
	lastErr  error
}

// NewLoader — DI-конструктор. ttl <= 0 — TTL кэша по умолчанию.
func NewLoader(api ports.OrderAPI, c ports.Cache, log ports.Logger, ttl time.Duration) *Loader {
	return &Loader{
		api:      api,
		cache:    c,
		log:      log,
		ttl:      ttl,
		baseline: make(map[string]struct{}),
	}
}

// Load — загрузка снимка для identity.
// force=false доверяет кэшированному снимку в пределах TTL; force=true всегда идёт в API.
// При ошибке ворота всё равно открываются (Complete) с пустым baseline,
// а ошибка оборачивается в ErrBulkLoad.
func (l *Loader) Load(ctx context.Context, id domain.Identity, force bool) ([]domain.Order, error) {
	l.mu.Lock()
	if l.state != NotStarted {
		st := l.state
		l.mu.Unlock()
		return nil, fmt.Errorf("%w: state=%s", ErrAlreadyStarted, st)
	}
	l.state = Loading
	gen := l.gen
	l.mu.Unlock()

	ctx, span := tracer.Start(ctx, "warmup.Load")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed.user_id", id.UserID),
		attribute.String("feed.service_area", id.ServiceAreaCode),
		attribute.Bool("feed.force", force),
	)

	start := time.Now()
	orders, source, err := l.fetch(ctx, id, force)
	span.SetAttributes(attribute.String("feed.source", source))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk load failed")
		metrics.WarmupLoads.WithLabelValues(source, "error").Inc()
		l.log.Errorf(ctx, "bulk load failed user=%s area=%s err=%v", id.UserID, id.ServiceAreaCode, err)
		err = fmt.Errorf("%w: %w", ErrBulkLoad, err)
		orders = nil
	} else {
		metrics.WarmupLoads.WithLabelValues(source, "ok").Inc()
		l.log.Infof(ctx, "bulk load done user=%s area=%s orders=%d source=%s took=%s",
			id.UserID, id.ServiceAreaCode, len(orders), source, time.Since(start))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		// Пока шла загрузка, ворота сбросили: результат уже никому не нужен.
		return orders, err
	}
	l.baseline = make(map[string]struct{}, len(orders))
	for i := range orders {
		l.baseline[orders[i].OrderID] = struct{}{}
	}
	l.lastErr = err
	l.state = Complete
	return orders, err
}

// Reset возвращает ворота в NotStarted и очищает baseline.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = NotStarted
	l.baseline = make(map[string]struct{})
	l.lastErr = nil
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// InBaseline — заказ был в первичном снимке текущей активации.
func (l *Loader) InBaseline(orderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.baseline[orderID]
	return ok
}

// Baseline — идентификаторы первичного снимка (порядок не определён).
func (l *Loader) Baseline() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.baseline))
	for id := range l.baseline {
		out = append(out, id)
	}
	return out
}

// LastError — ошибка последней завершённой загрузки.
func (l *Loader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Loader) fetch(ctx context.Context, id domain.Identity, force bool) ([]domain.Order, string, error) {
	key := cache.PendingOrdersKey(id.UserID, id.ServiceAreaCode)
	if !force {
		if v, ok := l.cache.Get(ctx, key); ok {
			if cached, typed := v.([]domain.Order); typed {
				return domain.CloneOrders(cached), "cache", nil
			}
			l.log.Warnf(ctx, "unexpected cached value type key=%s", key)
		}
	}

	orders, err := l.api.FetchPendingOrders(ctx, id.UserID, id.ServiceAreaCode)
	if err != nil {
		return nil, "api", err
	}
	l.cache.Set(ctx, key, domain.CloneOrders(orders), l.ttl)
	return orders, "api", nil
}
