// Package notify — очередь уведомлений о новых заказах.
// Показывается ровно одно уведомление: голова очереди.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
)

var (
	ErrNoActive   = errors.New("no active notification")
	ErrNotActive  = errors.New("order is not the active notification")
	ErrNoAcceptor = errors.New("acceptor is not bound")
)

// Acceptor выполняет подтверждение заказа; при успехе сам убирает его из очереди.
type Acceptor interface {
	Accept(ctx context.Context, orderID, actorID string) (domain.AcceptResult, error)
}

type Queue struct {
	mu       sync.Mutex
	items    []domain.Notification // [0] — активное
	acceptor Acceptor
	now      func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// BindAcceptor — привязка выполняется один раз при сборке приложения.
func (q *Queue) BindAcceptor(a Acceptor) {
	q.mu.Lock()
	q.acceptor = a
	q.mu.Unlock()
}

// Notify ставит заказ в хвост; повторное уведомление о том же заказе игнорируется.
func (q *Queue) Notify(order domain.Order) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if order.OrderID == "" || q.indexOf(order.OrderID) >= 0 {
		return false
	}
	q.items = append(q.items, domain.Notification{
		ID:        uuid.NewString(),
		Order:     order.Clone(),
		ArrivedAt: q.now(),
	})
	metrics.NotificationQueueLength.Set(float64(len(q.items)))
	return true
}

// Active — текущее показываемое уведомление.
func (q *Queue) Active() (domain.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return domain.Notification{}, false
	}
	return cloneNotification(q.items[0]), true
}

// DismissActive убирает активное уведомление; активным становится следующее.
// Заказ в хранилище не трогается.
func (q *Queue) DismissActive() (domain.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return domain.Notification{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	metrics.NotificationQueueLength.Set(float64(len(q.items)))
	return head, true
}

func (q *Queue) MarkActiveRead() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return false
	}
	q.items[0].Read = true
	return true
}

// AcceptActive подтверждает активный заказ через привязанный Acceptor.
// Лок очереди на время вызова не удерживается: Acceptor сам удаляет заказ через Remove.
// При ошибке очередь остаётся прежней.
func (q *Queue) AcceptActive(ctx context.Context, orderID, actorID string) error {
	q.mu.Lock()
	acceptor := q.acceptor
	if len(q.items) == 0 {
		q.mu.Unlock()
		return ErrNoActive
	}
	if q.items[0].OrderID() != orderID {
		q.mu.Unlock()
		return ErrNotActive
	}
	q.mu.Unlock()

	if acceptor == nil {
		return ErrNoAcceptor
	}
	if _, err := acceptor.Accept(ctx, orderID, actorID); err != nil {
		return err
	}
	// на случай, если Acceptor не трогал очередь
	q.Remove(orderID)
	return nil
}

// Pending — все уведомления, начиная с активного.
func (q *Queue) Pending() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]domain.Notification, len(q.items))
	for i := range q.items {
		out[i] = cloneNotification(q.items[i])
	}
	return out
}

// Remove убирает уведомление по заказу; идемпотентно.
func (q *Queue) Remove(orderID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(orderID)
	if i < 0 {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	metrics.NotificationQueueLength.Set(float64(len(q.items)))
	return true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	metrics.NotificationQueueLength.Set(0)
}

func (q *Queue) indexOf(orderID string) int {
	for i := range q.items {
		if q.items[i].OrderID() == orderID {
			return i
		}
	}
	return -1
}

func cloneNotification(n domain.Notification) domain.Notification {
	n.Order = n.Order.Clone()
	return n
}
