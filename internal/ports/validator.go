package ports

import "context"

// Validator — проверка входящих данных по правилам struct-тегов.
type Validator interface {
	Validate(ctx context.Context, v any) error
}
