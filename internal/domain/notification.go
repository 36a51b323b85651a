package domain

import "time"

// Notification — уведомление о новом заказе.
// Хранит копию заказа только для показа; авторитетная копия живёт в хранилище заказов.
type Notification struct {
	ID        string    `json:"id"`
	Order     Order     `json:"order"`
	ArrivedAt time.Time `json:"arrivedAt"`
	Read      bool      `json:"read"`
}

// OrderID — идентификатор заказа, к которому относится уведомление.
func (n Notification) OrderID() string { return n.Order.OrderID }
