package domain

import "time"

// Order — заказ, как его отдают внешние API и шина.
// Идентичность — OrderID: две записи с одинаковым OrderID считаются одним заказом.
type Order struct {
	OrderID     string    `json:"orderId" validate:"required"`
	PlacedAt    time.Time `json:"placedAt"`
	TotalAmount float64   `json:"totalAmount" validate:"gte=0"`
	Status      string    `json:"status"`
	CustomerID  string    `json:"customerId"`
	ItemIDs     []string  `json:"itemIds,omitempty"`
	ProductIDs  []string  `json:"productIds,omitempty"`
}

// Clone — копия заказа без общих срезов.
func (o Order) Clone() Order {
	c := o
	if o.ItemIDs != nil {
		c.ItemIDs = append([]string(nil), o.ItemIDs...)
	}
	if o.ProductIDs != nil {
		c.ProductIDs = append([]string(nil), o.ProductIDs...)
	}
	return c
}

// CloneOrders — копия списка заказов.
func CloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i := range orders {
		out[i] = orders[i].Clone()
	}
	return out
}

// StatusUpdate — событие из персональной очереди пользователя.
type StatusUpdate struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
	Message string `json:"message,omitempty"`
}

// Терминальные статусы: заказ больше не ждёт действия пользователя.
const (
	StatusAccepted  = "ACCEPTED"
	StatusCancelled = "CANCELLED"
	StatusRejected  = "REJECTED"
	StatusExpired   = "EXPIRED"
	StatusDelivered = "DELIVERED"
)

// IsTerminal — true, если статус выводит заказ из списка ожидающих.
func (u StatusUpdate) IsTerminal() bool {
	switch u.Status {
	case StatusAccepted, StatusCancelled, StatusRejected, StatusExpired, StatusDelivered:
		return true
	default:
		return false
	}
}

// AcceptResult — ответ API подтверждения заказа.
type AcceptResult struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}
