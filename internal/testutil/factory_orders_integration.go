//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/Gunvolt24/orderfeed/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// UniqueServiceArea — случайный валидный код зоны: топики разных тестов не пересекаются.
func UniqueServiceArea() string {
	n, err := rand.Int(rand.Reader, big.NewInt(899999))
	if err != nil {
		return "560001"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// MakeOrder — мини-генератор валидного заказа.
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	o := domain.Order{
		OrderID:     "ord-" + UniqSuffix(),
		PlacedAt:    time.Now().UTC().Truncate(time.Second),
		TotalAmount: 499.9,
		Status:      "PENDING",
		CustomerID:  "cust-" + UniqSuffix(),
		ItemIDs:     []string{"item-" + UniqSuffix()},
		ProductIDs:  []string{"prod-" + UniqSuffix()},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithOrderID(id string) func(*domain.Order) {
	return func(o *domain.Order) { o.OrderID = id }
}
