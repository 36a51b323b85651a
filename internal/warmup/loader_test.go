package warmup_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/cache/memory"
	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports/mocks"
	"github.com/Gunvolt24/orderfeed/internal/warmup"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var ident = domain.Identity{UserID: "u1", ServiceAreaCode: "560001"}

func orders(ids ...string) []domain.Order {
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Order{OrderID: id})
	}
	return out
}

func TestLoad_Success_FillsBaseline(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	api.EXPECT().FetchPendingOrders(gomock.Any(), "u1", "560001").Return(orders("a", "b"), nil)

	l := warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)
	require.Equal(t, warmup.NotStarted, l.State())

	got, err := l.Load(context.Background(), ident, false)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, warmup.Complete, l.State())
	assert.True(t, l.InBaseline("a"))
	assert.False(t, l.InBaseline("c"))

	base := l.Baseline()
	sort.Strings(base)
	assert.Equal(t, []string{"a", "b"}, base)
	assert.NoError(t, l.LastError())
}

func TestLoad_Failure_CompletesWithEmptyBaseline(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	apiErr := errors.New("api down")
	api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apiErr)

	l := warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)

	got, err := l.Load(context.Background(), ident, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, warmup.ErrBulkLoad)
	assert.ErrorIs(t, err, apiErr)
	assert.Empty(t, got)
	assert.Equal(t, warmup.Complete, l.State())
	assert.Empty(t, l.Baseline())
	assert.ErrorIs(t, l.LastError(), warmup.ErrBulkLoad)
}

func TestLoad_OncePerActivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(orders("a"), nil).Times(2)

	l := warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)
	_, err := l.Load(context.Background(), ident, true)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), ident, true)
	require.ErrorIs(t, err, warmup.ErrAlreadyStarted)

	l.Reset()
	assert.Equal(t, warmup.NotStarted, l.State())
	assert.False(t, l.InBaseline("a"))

	_, err = l.Load(context.Background(), ident, true)
	require.NoError(t, err)
}

func TestLoad_NonForcedUsesCachedSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	// второй не принудительный вызов обслуживается кэшем
	api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(orders("a"), nil).Times(1)

	l := warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)
	_, err := l.Load(context.Background(), ident, false)
	require.NoError(t, err)

	l.Reset()
	got, err := l.Load(context.Background(), ident, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, l.InBaseline("a"))
}

func TestLoad_ForcedBypassesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)
	gomock.InOrder(
		api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(orders("a"), nil),
		api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(orders("b"), nil),
	)

	l := warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)
	_, err := l.Load(context.Background(), ident, false)
	require.NoError(t, err)

	l.Reset()
	got, err := l.Load(context.Background(), ident, true)
	require.NoError(t, err)
	require.Equal(t, "b", got[0].OrderID)
	assert.False(t, l.InBaseline("a"))
}

func TestLoad_ResetDuringLoad_LeavesGateUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockOrderAPI(ctrl)

	var l *warmup.Loader
	api.EXPECT().FetchPendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) ([]domain.Order, error) {
			l.Reset()
			return orders("a"), nil
		})

	l = warmup.NewLoader(api, memory.NewTTLCache(time.Minute), noopLogger{}, 0)
	_, err := l.Load(context.Background(), ident, true)
	require.NoError(t, err)

	assert.Equal(t, warmup.NotStarted, l.State())
	assert.False(t, l.InBaseline("a"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not_started", warmup.NotStarted.String())
	assert.Equal(t, "loading", warmup.Loading.String())
	assert.Equal(t, "complete", warmup.Complete.String())
}
