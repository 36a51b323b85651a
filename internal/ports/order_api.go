package ports

import (
	"context"

	"github.com/Gunvolt24/orderfeed/internal/domain"
)

// OrderAPI — внешнее HTTP API заказов.
type OrderAPI interface {
	// FetchPendingOrders — все ожидающие заказы для пары (пользователь, зона).
	FetchPendingOrders(ctx context.Context, userID, serviceAreaCode string) ([]domain.Order, error)

	// AcceptOrder — подтвердить заказ от имени actorID. Идемпотентность — на стороне сервера.
	AcceptOrder(ctx context.Context, orderID, actorID string) (domain.AcceptResult, error)

	// FetchAssignedOrders — заказы, уже закреплённые за actorID.
	FetchAssignedOrders(ctx context.Context, actorID string) ([]domain.Order, error)
}
