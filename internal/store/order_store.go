// Package store — упорядоченная коллекция заказов в памяти.
package store

import (
	"sync"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
)

// OrderStore хранит заказы от новых к старым; OrderID уникален.
type OrderStore struct {
	mu     sync.RWMutex
	orders []domain.Order      // [0] — самый новый
	index  map[string]struct{} // OrderID → присутствует
}

func NewOrderStore() *OrderStore {
	return &OrderStore{index: make(map[string]struct{})}
}

// Replace заменяет содержимое целиком; порядок входа сохраняется, дубликаты отбрасываются.
func (s *OrderStore) Replace(orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]domain.Order, 0, len(orders))
	s.index = make(map[string]struct{}, len(orders))
	for i := range orders {
		id := orders[i].OrderID
		if id == "" {
			continue
		}
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.orders = append(s.orders, orders[i].Clone())
	}
	metrics.OrderStoreSize.Set(float64(len(s.orders)))
}

// Merge добавляет новые заказы в начало списка и возвращает добавленные
// в порядке поступления. Уже известные и повторяющиеся внутри пачки пропускаются.
func (s *OrderStore) Merge(orders []domain.Order) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []domain.Order
	for i := range orders {
		id := orders[i].OrderID
		if id == "" {
			continue
		}
		if _, exists := s.index[id]; exists {
			continue
		}
		s.index[id] = struct{}{}
		added = append(added, orders[i].Clone())
	}
	if len(added) == 0 {
		return nil
	}

	// каждый следующий встаёт перед предыдущим: самый свежий — первым
	merged := make([]domain.Order, 0, len(added)+len(s.orders))
	for i := len(added) - 1; i >= 0; i-- {
		merged = append(merged, added[i])
	}
	s.orders = append(merged, s.orders...)
	metrics.OrderStoreSize.Set(float64(len(s.orders)))
	return domain.CloneOrders(added)
}

// Remove — идемпотентно; false, если заказа не было.
func (s *OrderStore) Remove(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[orderID]; !ok {
		return false
	}
	delete(s.index, orderID)
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			break
		}
	}
	metrics.OrderStoreSize.Set(float64(len(s.orders)))
	return true
}

// List — копия содержимого, от новых к старым.
func (s *OrderStore) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneOrders(s.orders)
}

func (s *OrderStore) Get(orderID string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.index[orderID]; !ok {
		return domain.Order{}, false
	}
	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			return s.orders[i].Clone(), true
		}
	}
	return domain.Order{}, false
}

func (s *OrderStore) Contains(orderID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[orderID]
	return ok
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
