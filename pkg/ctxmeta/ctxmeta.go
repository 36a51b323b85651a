// Пакет ctxmeta — метаданные операции в context.Context:
// request_id из HTTP, actor_id и service_area конвейера, trace/span активного спана.
// HTTP-слой, конвейер и логгер зависят от него, но не друг от друга.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	KeyRequestID   ctxKey = "request_id"
	KeyActorID     ctxKey = "actor_id"
	KeyServiceArea ctxKey = "service_area"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithActorID — пользователь, от имени которого идёт операция.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return withString(ctx, KeyActorID, actorID)
}

func ActorIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyActorID)
}

// WithServiceArea — зона обслуживания активации.
func WithServiceArea(ctx context.Context, code string) context.Context {
	return withString(ctx, KeyServiceArea, code)
}

func ServiceAreaFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyServiceArea)
}

// TraceFromContext — trace_id и span_id активного спана.
// Без спана (или с no-op провайдером) возвращает ok=false.
func TraceFromContext(ctx context.Context) (traceID, spanID string, ok bool) {
	if ctx == nil {
		return "", "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
