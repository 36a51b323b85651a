package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Gunvolt24/orderfeed/pkg/ctxmeta"
)

// FileOptions — ротация файла логов; пустой Path — только stdout.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	return NewZapLoggerWithFile(isProd, FileOptions{})
}

// NewZapLoggerWithFile дублирует вывод в файл с ротацией через lumberjack.
func NewZapLoggerWithFile(isProd bool, file FileOptions) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, nil, err
	}

	var rotator *lumberjack.Logger
	if file.Path != "" {
		rotator = &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   true,
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		level := zapcore.DebugLevel
		if isProd {
			level = zapcore.InfoLevel
		}
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	loggerWrap := &ZapLogger{
		base:   logger,
		sugar:  logger.Sugar(),
		isProd: isProd,
	}

	cleanup := func() error {
		syncErr := loggerWrap.base.Sync()
		if rotator != nil {
			if err := rotator.Close(); err != nil {
				return err
			}
		}
		// Sync на stdout/stderr в терминале возвращает EINVAL — не считаем это ошибкой.
		if pe, ok := syncErr.(*os.PathError); ok && (pe.Path == "/dev/stdout" || pe.Path == "/dev/stderr") {
			return nil
		}
		return syncErr
	}
	return loggerWrap, cleanup, nil
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }

// withContext добавляет к записи метаданные запроса, если они есть.
func (z *ZapLogger) withContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.sugar
	}
	var fields []any
	if id, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", id)
	}
	if id, ok := ctxmeta.ActorIDFromContext(ctx); ok {
		fields = append(fields, "actor_id", id)
	}
	if code, ok := ctxmeta.ServiceAreaFromContext(ctx); ok {
		fields = append(fields, "service_area", code)
	}
	if traceID, spanID, ok := ctxmeta.TraceFromContext(ctx); ok {
		fields = append(fields, "trace_id", traceID, "span_id", spanID)
	}
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}
