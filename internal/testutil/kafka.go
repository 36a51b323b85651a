//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const topicReadyTimeout = 10 * time.Second

// EnsureTopics создаёт топики одним запросом к контроллеру и ждёт их появления в метаданных.
// Уже существующий топик не ошибка. broker — "host:port", "PLAINTEXT://host:port"
// или список через запятую (берётся первый).
func EnsureTopics(ctx context.Context, broker string, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	addr := firstBootstrap(broker)

	admin, err := dialController(addr)
	if err != nil {
		return err
	}
	defer admin.Close()

	cfgs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		cfgs = append(cfgs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := admin.CreateTopics(cfgs...); err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("create topics: %w", err)
	}

	for _, t := range topics {
		if err := waitTopicReady(ctx, addr, t); err != nil {
			return err
		}
	}
	return nil
}

// dialController — admin-соединение с контроллером кластера.
func dialController(addr string) (*kafka.Conn, error) {
	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	return kafka.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
}

// firstBootstrap — первый адрес из bootstrap-строки без схемы.
func firstBootstrap(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if u, err := url.Parse(first); err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host
	}
	return first
}

func waitTopicReady(ctx context.Context, broker, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, topicReadyTimeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %v (last error: %v)", topic, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}
