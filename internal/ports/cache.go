package ports

import (
	"context"
	"time"
)

// Cache — кэш с TTL на каждую запись.
// Требования к реализации: потокобезопасность; просроченная запись ведёт себя как промах
// и удаляется при чтении.
type Cache interface {
	// Set — сохранить значение; ttl <= 0 — TTL по умолчанию для кэша.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Get — (value, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, key string) (any, bool)

	// Has — то же, что Get, без возврата значения.
	Has(ctx context.Context, key string) bool

	// Delete — удалить запись (нет записи — не ошибка).
	Delete(ctx context.Context, key string)

	// DeletePrefix — удалить все записи с префиксом; возвращает число удалённых.
	DeletePrefix(ctx context.Context, prefix string) int
}
