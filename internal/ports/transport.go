package ports

import "context"

// SessionHandlers — события жизненного цикла транспортной сессии.
// Реализация не вызывает их синхронно изнутри Open.
type SessionHandlers struct {
	OnConnect    func()          // первое подключение
	OnReconnect  func()          // восстановление после разрыва
	OnDisconnect func(err error) // разрыв (err может быть nil)
	OnError      func(err error) // асинхронные ошибки транспорта
}

// SessionFactory — открывает сессию к шине сообщений.
// Цикл переподключения с фиксированной задержкой принадлежит транспорту.
type SessionFactory interface {
	Open(ctx context.Context, handlers SessionHandlers) (Session, error)
}

// Session — одна логическая сессия: подписки и публикация.
// Топики и назначения задаются в виде "a/b/c"; транспорт сам переводит их в свой формат.
type Session interface {
	Subscribe(topic string, handler func(payload []byte)) error
	Publish(destination string, body []byte) error
	Close() error
}
