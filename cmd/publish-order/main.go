package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/orderfeed/config"
	"github.com/Gunvolt24/orderfeed/internal/app"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/internal/stream"
	"github.com/Gunvolt24/orderfeed/pkg/logger"
	"github.com/Gunvolt24/orderfeed/pkg/validate"
)

// CLI-приложение: публикация заказа (или массива заказов) в топик зоны обслуживания.
func main() {
	_ = godotenv.Load(".env.local")

	inputPath := flag.String("in", "", "path to JSON payload. If empty, reads from stdin.")
	driver := flag.String("driver", "", "bus driver: nats|kafka (default from ORDER_BUS_DRIVER)")
	area := flag.String("area", "", "service area code (default from ORDER_IDENTITY_SERVICE_AREA)")
	topic := flag.String("topic", "", "explicit destination, overrides -area")
	raw := flag.Bool("raw", false, "publish payload as is, without validation")
	timeout := flag.Duration("timeout", 10*time.Second, "connect and publish timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("config", err)
	}
	if *driver != "" {
		cfg.Bus.Driver = *driver
	}
	if *area != "" {
		cfg.Identity.ServiceArea = *area
	}

	dest := *topic
	if dest == "" {
		dest = stream.OrdersTopic(cfg.Identity.ServiceArea)
	}

	payload, err := readPayload(*inputPath)
	if err != nil {
		fail("read payload", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if !*raw {
		res, vErr := validate.DecodeOrders(ctx, validate.New(), payload)
		if vErr != nil {
			fail("validate payload", vErr)
		}
		fmt.Fprintf(os.Stderr, "payload ok: %d orders, %d dropped\n", len(res.Orders), res.Dropped)
	}

	logg, cleanup, err := logger.NewZapLogger(false)
	if err != nil {
		fail("logger", err)
	}
	defer func() { _ = cleanup() }()

	factory, err := app.NewSessionFactory(&cfg, logg)
	if err != nil {
		fail("bus", err)
	}

	if err := publish(ctx, factory, dest, payload); err != nil {
		fail("publish", err)
	}
	fmt.Fprintf(os.Stderr, "published %d bytes to %s via %s\n", len(payload), dest, cfg.Bus.Driver)
}

// publish — открыть сессию, дождаться подключения, отправить одно сообщение.
func publish(ctx context.Context, factory ports.SessionFactory, dest string, body []byte) error {
	connected := make(chan struct{}, 1)
	handlers := ports.SessionHandlers{
		OnConnect: func() {
			select {
			case connected <- struct{}{}:
			default:
			}
		},
	}

	sess, err := factory.Open(ctx, handlers)
	if err != nil {
		return err
	}
	defer sess.Close()

	select {
	case <-connected:
	case <-ctx.Done():
		return fmt.Errorf("wait for connection: %w", ctx.Err())
	}

	return sess.Publish(dest, body)
}

func readPayload(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	os.Exit(1)
}
