package usecase

import "sync"

// EventLoop сериализует мутации, которые затрагивают хранилище заказов
// и очередь уведомлений одновременно. Внешние вызовы внутри Do запрещены.
type EventLoop struct {
	mu sync.Mutex
}

func NewEventLoop() *EventLoop { return &EventLoop{} }

// Do — fn выполняется под локом цикла. Не реентерабельно.
func (l *EventLoop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
