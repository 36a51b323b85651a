package ports

import "context"

// Runner — фоновый компонент приложения: работает до отмены контекста.
type Runner interface {
	Run(ctx context.Context) error
	Close() error
}
