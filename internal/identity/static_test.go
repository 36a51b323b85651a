package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/identity"
)

func TestStatic_CurrentUser(t *testing.T) {
	t.Parallel()

	p := identity.NewStatic(" u-1 ", "560001")
	id, err := p.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "u-1", ServiceAreaCode: "560001"}, id)
	assert.True(t, id.Ready())
}

func TestStatic_NoUser(t *testing.T) {
	t.Parallel()

	_, err := identity.NewStatic("", "560001").CurrentUser(context.Background())
	require.ErrorIs(t, err, identity.ErrNoUser)
}

func TestStatic_InvalidCodeIsReturnedAsIs(t *testing.T) {
	t.Parallel()

	id, err := identity.NewStatic("u-1", "000000").CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, id.Ready())
}

func TestStatic_UpdateServiceArea(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := identity.NewStatic("u-1", "560001")

	require.ErrorIs(t, p.UpdateServiceArea(ctx, "12ab56"), domain.ErrInvalidServiceArea)
	id, _ := p.CurrentUser(ctx)
	assert.Equal(t, "560001", id.ServiceAreaCode)

	require.NoError(t, p.UpdateServiceArea(ctx, "110011"))
	id, _ = p.CurrentUser(ctx)
	assert.Equal(t, "110011", id.ServiceAreaCode)
}
