package kafka_test

import (
	"slices"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	mykafka "github.com/Gunvolt24/orderfeed/internal/kafka"
)

func TestConfig_ReaderConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		startOffset string
		wantOffset  int64
	}{
		{"first lower", "first", kafkago.FirstOffset},
		{"first upper", "FIRST", kafkago.FirstOffset},
		{"first spaced", " FiRsT \n", kafkago.FirstOffset},
		{"empty -> last", "", kafkago.LastOffset},
		{"explicit last -> last", "last", kafkago.LastOffset},
		{"unknown -> last", "unknown", kafkago.LastOffset},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := mykafka.Config{
				Brokers:     []string{"k1:9092", "k2:9092"},
				GroupID:     "group",
				StartOffset: tt.startOffset,
			}

			rc := cfg.ReaderConfig("orders-for-area.560001", "group-1")

			if rc.StartOffset != tt.wantOffset {
				t.Fatalf("StartOffset: want %d, got %d", tt.wantOffset, rc.StartOffset)
			}
			if !slices.Equal(rc.Brokers, cfg.Brokers) {
				t.Fatalf("Brokers: want %v, got %v", cfg.Brokers, rc.Brokers)
			}
			if rc.Topic != "orders-for-area.560001" || rc.GroupID != "group-1" {
				t.Fatalf("Topic/GroupID not propagated: %+v", rc)
			}
			// Ручной коммит
			if rc.CommitInterval != 0 {
				t.Fatalf("CommitInterval: want 0, got %v", rc.CommitInterval)
			}
		})
	}
}

func TestTopicName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"orders-for-area/560001":  "orders-for-area.560001",
		"user/u1/status":          "user.u1.status",
		"/orders/request-current": "orders.request-current",
		"plain":                   "plain",
	}
	for in, want := range tests {
		if got := mykafka.TopicName(in); got != want {
			t.Fatalf("TopicName(%q)=%q want %q", in, got, want)
		}
	}
}
