package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers     []string
	GroupID     string // префикс; у каждой сессии своя группа
	StartOffset string // first|last
	RetryDelay  time.Duration
	DialTimeout time.Duration
}

// ReaderConfig — конфиг читателя одного топика с ручным коммитом оффсетов.
func (c *Config) ReaderConfig(topic, groupID string) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        groupID,
		Topic:          topic,
		CommitInterval: 0,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}

// TopicName переводит адрес вида "a/b/c" в имя топика Kafka ("a.b.c").
func TopicName(destination string) string {
	return strings.ReplaceAll(strings.Trim(destination, "/"), "/", ".")
}
