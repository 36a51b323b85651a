package ports

import (
	"context"

	"github.com/Gunvolt24/orderfeed/internal/domain"
)

// FeedStatus — снимок состояния конвейера для UI.
type FeedStatus struct {
	UserID          string `json:"userId"`
	ServiceAreaCode string `json:"serviceAreaCode"`
	Active          bool   `json:"active"`
	WarmUp          string `json:"warmUp"`
	Connected       bool   `json:"connected"`
	Orders          int    `json:"orders"`
	Notifications   int    `json:"notifications"`
	LastError       string `json:"lastError,omitempty"`
	LastLoadError   string `json:"lastLoadError,omitempty"`
}

// FeedService — операции конвейера заказов, доступные UI.
type FeedService interface {
	Orders() []domain.Order
	Order(orderID string) (domain.Order, bool)
	AssignedOrders(ctx context.Context, force bool) ([]domain.Order, error)
	RemoveOrder(ctx context.Context, orderID string) bool
	Accept(ctx context.Context, orderID string) (domain.AcceptResult, error)

	Notifications() []domain.Notification
	ActiveNotification() (domain.Notification, bool)
	DismissActive() (domain.Notification, bool)
	MarkActiveRead() bool
	AcceptActive(ctx context.Context, orderID string) error

	Refresh(ctx context.Context) error
	ChangeServiceArea(ctx context.Context, code string) error
	Status() FeedStatus
}
