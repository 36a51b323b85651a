// Package cache содержит построители составных ключей кэша.
package cache

import (
	"net/url"
	"strings"
)

const (
	keySep      = ":"
	ordersScope = "orders"
)

// Key склеивает части через ":"; каждая часть экранируется,
// поэтому ":" внутри идентификатора не ломает префиксы.
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, keySep)
}

// PendingOrdersKey — снимок ожидающих заказов пользователя в зоне обслуживания.
func PendingOrdersKey(userID, serviceAreaCode string) string {
	return Key(ordersScope, userID, "pending", serviceAreaCode)
}

// AssignedOrdersKey — список заказов, уже принятых пользователем.
func AssignedOrdersKey(actorID string) string {
	return Key(ordersScope, actorID, "assigned")
}

// ActorPrefix покрывает все ключи заказов пользователя.
func ActorPrefix(actorID string) string {
	return Key(ordersScope, actorID) + keySep
}
