package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Gunvolt24/orderfeed/internal/cache"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/notify"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/internal/store"
	"github.com/Gunvolt24/orderfeed/pkg/ctxmeta"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
)

var ErrAcceptFailed = errors.New("accept order failed")

var tracer = otel.Tracer("github.com/Gunvolt24/orderfeed/internal/usecase")

var _ notify.Acceptor = (*AcceptCoordinator)(nil)

// AcceptCoordinator — единственный путь удаления заказа из всех мест, где он лежит:
// хранилище, очередь уведомлений, кэш пользователя.
type AcceptCoordinator struct {
	api   ports.OrderAPI
	store *store.OrderStore
	queue *notify.Queue
	cache ports.Cache
	loop  *EventLoop
	log   ports.Logger
}

func NewAcceptCoordinator(
	api ports.OrderAPI,
	st *store.OrderStore,
	q *notify.Queue,
	c ports.Cache,
	loop *EventLoop,
	log ports.Logger,
) *AcceptCoordinator {
	return &AcceptCoordinator{api: api, store: st, queue: q, cache: c, loop: loop, log: log}
}

// Accept — вызов API подтверждения; при успехе заказ удаляется отовсюду,
// при ошибке ничего не меняется. Повторов нет.
func (c *AcceptCoordinator) Accept(ctx context.Context, orderID, actorID string) (domain.AcceptResult, error) {
	ctx = ctxmeta.WithActorID(ctx, actorID)
	ctx, span := tracer.Start(ctx, "usecase.Accept")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed.order_id", orderID),
		attribute.String("feed.actor_id", actorID),
	)

	res, err := c.api.AcceptOrder(ctx, orderID, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "accept failed")
		metrics.OrderAccepts.WithLabelValues("error").Inc()
		c.log.Errorf(ctx, "accept failed order=%s err=%v", orderID, err)
		return domain.AcceptResult{}, fmt.Errorf("%w: order %s: %w", ErrAcceptFailed, orderID, err)
	}

	c.loop.Do(func() { c.removeLocked(orderID) })
	n := c.InvalidateActor(ctx, actorID)

	metrics.OrderAccepts.WithLabelValues("ok").Inc()
	c.log.Infof(ctx, "order accepted order=%s cache_evicted=%d message=%q", orderID, n, res.Message)
	return res, nil
}

// Remove — общий примитив удаления: ручное удаление и терминальный статус идут через него.
func (c *AcceptCoordinator) Remove(ctx context.Context, orderID string) bool {
	var removed bool
	c.loop.Do(func() { removed = c.removeLocked(orderID) })
	if removed {
		c.log.Infof(ctx, "order removed order=%s", orderID)
	}
	return removed
}

// InvalidateActor — сбросить все кэшированные списки пользователя.
func (c *AcceptCoordinator) InvalidateActor(ctx context.Context, actorID string) int {
	if actorID == "" {
		return 0
	}
	return c.cache.DeletePrefix(ctx, cache.ActorPrefix(actorID))
}

// removeLocked вызывается только внутри EventLoop.
func (c *AcceptCoordinator) removeLocked(orderID string) bool {
	inStore := c.store.Remove(orderID)
	inQueue := c.queue.Remove(orderID)
	return inStore || inQueue
}
