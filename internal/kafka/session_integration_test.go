//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	ikafka "github.com/Gunvolt24/orderfeed/internal/kafka"
	"github.com/Gunvolt24/orderfeed/internal/stream"
	"github.com/Gunvolt24/orderfeed/internal/testutil"
	"github.com/Gunvolt24/orderfeed/pkg/logger"
	"github.com/Gunvolt24/orderfeed/pkg/validate"
)

// events — то, что менеджер отдал наружу.
type events struct {
	mu       sync.Mutex
	connects int
	orders   []domain.Order
	statuses []domain.StatusUpdate
}

func (e *events) callbacks() stream.Callbacks {
	return stream.Callbacks{
		OnConnect: func() {
			e.mu.Lock()
			e.connects++
			e.mu.Unlock()
		},
		OnOrdersReceived: func(orders []domain.Order) {
			e.mu.Lock()
			e.orders = append(e.orders, orders...)
			e.mu.Unlock()
		},
		OnStatusUpdate: func(u domain.StatusUpdate) {
			e.mu.Lock()
			e.statuses = append(e.statuses, u)
			e.mu.Unlock()
		},
	}
}

func (e *events) snapshot() (connects int, orders []domain.Order, statuses []domain.StatusUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connects, append([]domain.Order(nil), e.orders...), append([]domain.StatusUpdate(nil), e.statuses...)
}

// Поток через настоящий брокер: подписка, запрос текущих заказов, заказы и статусы.
func TestKafkaSession_StreamRoundTrip_TC(t *testing.T) {
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	id := domain.Identity{UserID: "user-" + testutil.UniqSuffix(), ServiceAreaCode: testutil.UniqueServiceArea()}
	ordersTopic := ikafka.TopicName(stream.OrdersTopic(id.ServiceAreaCode))
	statusTopic := ikafka.TopicName(stream.StatusTopic(id.UserID))
	requestTopic := ikafka.TopicName(stream.RequestCurrentDestination)
	require.NoError(t, testutil.EnsureTopics(ctx, kf.Brokers[0], ordersTopic, statusTopic, requestTopic))

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	factory := ikafka.NewSessionFactory(ikafka.Config{
		Brokers:     kf.Brokers,
		GroupID:     "orderfeed-itc",
		StartOffset: "first",
		RetryDelay:  time.Second,
	}, logg)
	manager := stream.NewManager(factory, validate.New(), logg, time.Second, "kafka")

	ev := &events{}
	require.NoError(t, manager.Connect(id, ev.callbacks()))
	t.Cleanup(manager.Disconnect)

	require.Eventually(t, func() bool {
		c, _, _ := ev.snapshot()
		return c == 1
	}, 30*time.Second, 200*time.Millisecond)
	require.True(t, manager.Connected())

	// запрос текущих заказов ушёл в брокер
	req := readOne(t, ctx, kf.Brokers, requestTopic)
	var body stream.RequestCurrent
	require.NoError(t, json.Unmarshal(req, &body))
	require.Equal(t, id.UserID, body.UserID)
	require.Equal(t, id.ServiceAreaCode, body.ServiceAreaCode)

	single := testutil.MakeOrder()
	batch := []domain.Order{testutil.MakeOrder(), testutil.MakeOrder()}
	rawSingle, _ := json.Marshal(single)
	rawBatch, _ := json.Marshal(batch)

	writeMsg(t, ctx, kf.Brokers, ordersTopic, []byte("not-a-json"))
	writeMsg(t, ctx, kf.Brokers, ordersTopic, rawSingle)
	writeMsg(t, ctx, kf.Brokers, ordersTopic, rawBatch)
	writeMsg(t, ctx, kf.Brokers, statusTopic, []byte(`{"orderId":"`+single.OrderID+`","status":"CANCELLED"}`))

	require.Eventually(t, func() bool {
		_, orders, statuses := ev.snapshot()
		return len(orders) == 3 && len(statuses) == 1
	}, 30*time.Second, 200*time.Millisecond)

	_, orders, statuses := ev.snapshot()
	require.Equal(t, []string{single.OrderID, batch[0].OrderID, batch[1].OrderID},
		[]string{orders[0].OrderID, orders[1].OrderID, orders[2].OrderID})
	require.Equal(t, single.OrderID, statuses[0].OrderID)
	require.True(t, statuses[0].IsTerminal())

	manager.Disconnect()
	require.False(t, manager.Connected())
}

// -----------------функции-помощники-----------------

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

// readOne — первое сообщение топика с начала.
func readOne(t *testing.T, ctx context.Context, brokers []string, topic string) []byte {
	t.Helper()
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     "itc-reader-" + testutil.UniqSuffix(),
		StartOffset: kafka.FirstOffset,
	})
	defer r.Close()

	rctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	msg, err := r.ReadMessage(rctx)
	require.NoError(t, err)
	return msg.Value
}
