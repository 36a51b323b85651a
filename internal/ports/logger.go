package ports

import "context"

// Logger — контракт логгера для всех слоёв; метаданные (request_id, actor_id,
// service_area, trace_id) реализация берёт из ctx.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
