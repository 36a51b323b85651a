//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// ----------------------------------------------------------------------------
// Логи жизненного цикла контейнеров
// ----------------------------------------------------------------------------

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

func shortID(c tc.Container) string {
	id := c.GetContainerID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// logHooks — по строке на каждый этап; role подписывает контейнер в выводе.
func logHooks(l *log.Logger, role string) tc.ContainerLifecycleHooks {
	stage := func(name string) []tc.ContainerHook {
		return []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				l.Printf("%s %s id=%s", role, name, shortID(c))
				return nil
			},
		}
	}
	return tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{
			func(_ context.Context, req tc.ContainerRequest) error {
				l.Printf("%s creating image=%s", role, req.Image)
				return nil
			},
		},
		PostStarts:     stage("started"),
		PostReadies:    stage("ready"),
		PreTerminates:  stage("terminating"),
		PostTerminates: stage("terminated"),
	}
}

// ----------------------------------------------------------------------------
// Kafka
// ----------------------------------------------------------------------------

// KafkaEnv — одноузловой redpanda с автосозданием топиков.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
}

func StartKafkaTC(ctx context.Context) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(
		ctx,
		"docker.redpanda.com/redpandadata/redpanda:v23.3.8",
		tc.WithLifecycleHooks(logHooks(tcLogger, "redpanda")),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx) // вернёт "host:port" для клиента
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	env := &KafkaEnv{
		Container: rp,
		Brokers:   []string{firstBootstrap(seed)},
	}
	stop := func(_ context.Context) error { return tc.TerminateContainer(rp) }
	return env, stop, nil
}
