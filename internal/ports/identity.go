package ports

import (
	"context"

	"github.com/Gunvolt24/orderfeed/internal/domain"
)

// IdentityProvider — источник текущего пользователя и его зоны обслуживания.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (domain.Identity, error)
	UpdateServiceArea(ctx context.Context, code string) error
}
