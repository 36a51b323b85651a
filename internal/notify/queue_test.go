package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/notify"
)

// fakeAcceptor повторяет поведение координатора: при успехе снимает заказ с очереди.
type fakeAcceptor struct {
	q     *notify.Queue
	err   error
	calls []string
}

func (f *fakeAcceptor) Accept(_ context.Context, orderID, _ string) (domain.AcceptResult, error) {
	f.calls = append(f.calls, orderID)
	if f.err != nil {
		return domain.AcceptResult{}, f.err
	}
	f.q.Remove(orderID)
	return domain.AcceptResult{OrderID: orderID, Message: "ok"}, nil
}

func order(id string) domain.Order { return domain.Order{OrderID: id} }

func activeID(t *testing.T, q *notify.Queue) string {
	t.Helper()
	n, ok := q.Active()
	if !ok {
		return ""
	}
	return n.OrderID()
}

func TestNotify_FIFOAndSingleActive(t *testing.T) {
	q := notify.NewQueue()
	require.True(t, q.Notify(order("a")))
	require.True(t, q.Notify(order("b")))
	require.True(t, q.Notify(order("c")))

	assert.Equal(t, "a", activeID(t, q))
	assert.Equal(t, 3, q.Len())

	n, ok := q.DismissActive()
	require.True(t, ok)
	assert.Equal(t, "a", n.OrderID())
	assert.Equal(t, "b", activeID(t, q))

	q.DismissActive()
	q.DismissActive()
	_, ok = q.Active()
	assert.False(t, ok)
	_, ok = q.DismissActive()
	assert.False(t, ok)
}

func TestNotify_Idempotent(t *testing.T) {
	q := notify.NewQueue()
	assert.True(t, q.Notify(order("a")))
	assert.False(t, q.Notify(order("a")))
	assert.False(t, q.Notify(order("")))
	assert.Equal(t, 1, q.Len())

	p := q.Pending()
	require.Len(t, p, 1)
	assert.NotEmpty(t, p[0].ID)
	assert.False(t, p[0].ArrivedAt.IsZero())
}

func TestMarkActiveRead(t *testing.T) {
	q := notify.NewQueue()
	assert.False(t, q.MarkActiveRead())

	q.Notify(order("a"))
	q.Notify(order("b"))
	assert.True(t, q.MarkActiveRead())

	p := q.Pending()
	assert.True(t, p[0].Read)
	assert.False(t, p[1].Read)
}

func TestRemove_PromotesNext(t *testing.T) {
	q := notify.NewQueue()
	q.Notify(order("a"))
	q.Notify(order("b"))

	assert.True(t, q.Remove("a"))
	assert.False(t, q.Remove("a"))
	assert.Equal(t, "b", activeID(t, q))

	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestAcceptActive_Success(t *testing.T) {
	q := notify.NewQueue()
	acc := &fakeAcceptor{q: q}
	q.BindAcceptor(acc)
	q.Notify(order("a"))
	q.Notify(order("b"))

	require.NoError(t, q.AcceptActive(context.Background(), "a", "u1"))
	assert.Equal(t, []string{"a"}, acc.calls)
	assert.Equal(t, "b", activeID(t, q))
	assert.Equal(t, 1, q.Len())
}

func TestAcceptActive_FailureLeavesQueue(t *testing.T) {
	q := notify.NewQueue()
	acc := &fakeAcceptor{q: q, err: errors.New("boom")}
	q.BindAcceptor(acc)
	q.Notify(order("a"))

	err := q.AcceptActive(context.Background(), "a", "u1")
	require.Error(t, err)
	assert.Equal(t, "a", activeID(t, q))
	assert.Equal(t, 1, q.Len())
}

func TestAcceptActive_Preconditions(t *testing.T) {
	q := notify.NewQueue()
	acc := &fakeAcceptor{q: q}
	q.BindAcceptor(acc)

	assert.ErrorIs(t, q.AcceptActive(context.Background(), "a", "u1"), notify.ErrNoActive)

	q.Notify(order("a"))
	q.Notify(order("b"))
	assert.ErrorIs(t, q.AcceptActive(context.Background(), "b", "u1"), notify.ErrNotActive)
	assert.Empty(t, acc.calls)

	unbound := notify.NewQueue()
	unbound.Notify(order("a"))
	assert.ErrorIs(t, unbound.AcceptActive(context.Background(), "a", "u1"), notify.ErrNoAcceptor)
}
