package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orderfeed/config"
	"github.com/Gunvolt24/orderfeed/internal/cache/memory"
	"github.com/Gunvolt24/orderfeed/internal/identity"
	"github.com/Gunvolt24/orderfeed/internal/kafka"
	"github.com/Gunvolt24/orderfeed/internal/nats"
	"github.com/Gunvolt24/orderfeed/internal/notify"
	"github.com/Gunvolt24/orderfeed/internal/orderapi"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/internal/store"
	"github.com/Gunvolt24/orderfeed/internal/stream"
	rest "github.com/Gunvolt24/orderfeed/internal/transport/http"
	"github.com/Gunvolt24/orderfeed/internal/usecase"
	"github.com/Gunvolt24/orderfeed/internal/warmup"
	"github.com/Gunvolt24/orderfeed/pkg/logger"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
	"github.com/Gunvolt24/orderfeed/pkg/telemetry"
	"github.com/Gunvolt24/orderfeed/pkg/validate"
)

// Драйверы шины.
const (
	DriverNATS  = "nats"
	DriverKafka = "kafka"
)

var ErrUnknownDriver = errors.New("unknown bus driver")

// App — собранное приложение: HTTP-сервер и конвейер заказов.
type App struct {
	Logger          ports.Logger  // логгер
	HTTPServer      *http.Server  // HTTP-сервер
	Feed            ports.Runner  // конвейер заказов
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// NewSessionFactory — транспорт шины по имени драйвера.
func NewSessionFactory(cfg *config.Config, log ports.Logger) (ports.SessionFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Bus.Driver)) {
	case DriverNATS:
		return nats.NewSessionFactory(nats.Config{
			URL:            cfg.NATS.URL,
			Name:           cfg.NATS.Name,
			ReconnectDelay: cfg.Bus.ReconnectDelay,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		}, log), nil
	case DriverKafka:
		return kafka.NewSessionFactory(kafka.Config{
			Brokers:     cfg.Kafka.Brokers,
			GroupID:     cfg.Kafka.GroupID,
			StartOffset: cfg.Kafka.StartOffset,
			RetryDelay:  cfg.Bus.ReconnectDelay,
			DialTimeout: cfg.Kafka.DialTimeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Bus.Driver)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим и файл задаются конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLoggerWithFile(cfg.Logger.IsProd, logger.FileOptions{
		Path:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
	})
	if err != nil {
		return nil, func() {}, err
	}

	factory, err := NewSessionFactory(cfg, logg)
	if err != nil {
		_ = cleanupLogger()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Attributes: map[string]string{
				"orderfeed.bus.driver":   cfg.Bus.Driver,
				"orderfeed.service_area": cfg.Identity.ServiceArea,
			},
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Сборка конвейера.
	ttlCache := memory.NewTTLCache(cfg.Cache.TTL)
	api := orderapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	idp := identity.NewStatic(cfg.Identity.UserID, cfg.Identity.ServiceArea)
	manager := stream.NewManager(factory, validate.New(), logg, cfg.Bus.ReconnectDelay, cfg.Bus.Driver)

	orderStore := store.NewOrderStore()
	queue := notify.NewQueue()
	loop := usecase.NewEventLoop()
	coord := usecase.NewAcceptCoordinator(api, orderStore, queue, ttlCache, loop, logg)
	queue.BindAcceptor(coord)

	feed := usecase.NewFeedService(usecase.FeedDeps{
		Identity:    idp,
		API:         api,
		Cache:       ttlCache,
		Loader:      warmup.NewLoader(api, ttlCache, logg, cfg.Cache.PendingTTL),
		Store:       orderStore,
		Queue:       queue,
		Stream:      manager,
		Accept:      coord,
		Loop:        loop,
		Log:         logg,
		AssignedTTL: cfg.Cache.AssignedTTL,
	})

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	router := rest.NewRouter(rest.NewHandler(feed, logg, cfg.HTTP.HandlerTimeout), rest.Options{
		StaticDir:    cfg.HTTP.StaticDir,
		ServiceName:  otelServiceName,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		RefreshRPS:   cfg.HTTP.RefreshRPS,
		RefreshBurst: cfg.HTTP.RefreshBurst,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Feed:            feed,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	logg.Infof(ctx, "app assembled driver=%s user=%s area=%s api=%s",
		cfg.Bus.Driver, cfg.Identity.UserID, cfg.Identity.ServiceArea, cfg.API.BaseURL)

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if err := feed.Close(); err != nil {
			logg.Warnf(ctx, "feed close error: %v", err)
		}
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и конвейер; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	feedCtx, cancelFeed := context.WithCancel(ctx)
	defer cancelFeed()

	// Запуск конвейера.
	go func() {
		a.Logger.Infof(ctx, "order feed starting")
		if err := a.Feed.Run(feedCtx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка конвейера
	cancelFeed()
	if err := a.Feed.Close(); err != nil {
		a.Logger.Warnf(ctx, "feed close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
