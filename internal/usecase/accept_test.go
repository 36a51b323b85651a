package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/cache"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/usecase"
)

func TestAccept_Success_RemovesEverywhere(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.store.Replace(orders("a", "b"))
	fx.queue.Notify(domain.Order{OrderID: "a"})
	fx.cache.Set(ctx, cache.AssignedOrdersKey(userID), orders("x"), 0)
	fx.cache.Set(ctx, cache.PendingOrdersKey(userID, area), orders("a", "b"), 0)
	fx.cache.Set(ctx, cache.AssignedOrdersKey("other"), orders("y"), 0)

	fx.api.EXPECT().AcceptOrder(gomock.Any(), "a", userID).
		Return(domain.AcceptResult{OrderID: "a", Message: "Order accepted"}, nil)

	res, err := fx.coord.Accept(ctx, "a", userID)
	require.NoError(t, err)
	assert.Equal(t, "Order accepted", res.Message)

	assert.False(t, fx.store.Contains("a"))
	assert.Equal(t, 0, fx.queue.Len())
	assert.False(t, fx.cache.Has(ctx, cache.AssignedOrdersKey(userID)))
	assert.False(t, fx.cache.Has(ctx, cache.PendingOrdersKey(userID, area)))
	assert.True(t, fx.cache.Has(ctx, cache.AssignedOrdersKey("other")), "другие пользователи не затрагиваются")
}

func TestAccept_Failure_ChangesNothing(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.store.Replace(orders("a"))
	fx.queue.Notify(domain.Order{OrderID: "a"})
	fx.cache.Set(ctx, cache.AssignedOrdersKey(userID), orders("x"), 0)

	apiErr := errors.New("409 conflict")
	fx.api.EXPECT().AcceptOrder(gomock.Any(), "a", userID).Return(domain.AcceptResult{}, apiErr)

	_, err := fx.coord.Accept(ctx, "a", userID)
	require.ErrorIs(t, err, usecase.ErrAcceptFailed)
	require.ErrorIs(t, err, apiErr)

	assert.True(t, fx.store.Contains("a"))
	assert.Equal(t, 1, fx.queue.Len())
	assert.True(t, fx.cache.Has(ctx, cache.AssignedOrdersKey(userID)))
}

func TestAcceptActive_ThroughQueue(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.store.Replace(orders("a", "b"))
	fx.queue.Notify(domain.Order{OrderID: "a"})
	fx.queue.Notify(domain.Order{OrderID: "b"})

	fx.api.EXPECT().AcceptOrder(gomock.Any(), "a", userID).Return(domain.AcceptResult{OrderID: "a"}, nil)

	require.NoError(t, fx.queue.AcceptActive(ctx, "a", userID))
	n, ok := fx.queue.Active()
	require.True(t, ok)
	assert.Equal(t, "b", n.OrderID())
	assert.Equal(t, []string{"b"}, ids(fx.store.List()))
}

func TestRemove(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.store.Replace(orders("a"))
	fx.queue.Notify(domain.Order{OrderID: "q"})

	assert.True(t, fx.coord.Remove(ctx, "a"))
	assert.True(t, fx.coord.Remove(ctx, "q"), "заказ только в очереди тоже удаляется")
	assert.False(t, fx.coord.Remove(ctx, "a"))
	assert.False(t, fx.coord.Remove(ctx, "missing"))
}
