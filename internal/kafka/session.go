// Package kafka — транспорт шины поверх segmentio/kafka-go.
// Каждая сессия читает свои топики в отдельной группе потребителей,
// поэтому получает все сообщения, а не их долю.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

var _ ports.SessionFactory = (*SessionFactory)(nil)

// reader — минимальный контракт над kafka.Reader, чтобы подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// writer — минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultRetryDelay  = 5 * time.Second
	defaultDialTimeout = 5 * time.Second
	publishTimeout     = 10 * time.Second
)

type SessionFactory struct {
	cfg Config
	log ports.Logger

	newReader  func(kafka.ReaderConfig) reader
	newWriter  func() writer
	probe      func(ctx context.Context) error
	endOffsets func(ctx context.Context, topic string) (map[int]int64, error)
}

func NewSessionFactory(cfg Config, log ports.Logger) *SessionFactory {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	f := &SessionFactory{cfg: cfg, log: log}
	f.newReader = func(rc kafka.ReaderConfig) reader { return kafka.NewReader(rc) }
	f.newWriter = func() writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
	}
	f.probe = f.dialBroker
	f.endOffsets = f.readEndOffsets
	return f
}

// Open проверяет доступность брокера и возвращает сессию.
// OnConnect вызывается асинхронно, уже после возврата из Open.
func (f *SessionFactory) Open(ctx context.Context, handlers ports.SessionHandlers) (ports.Session, error) {
	if len(f.cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if err := f.probe(ctx); err != nil {
		return nil, fmt.Errorf("kafka: dial: %w", err)
	}

	sessCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		factory:  f,
		handlers: handlers,
		groupID:  fmt.Sprintf("%s-%s", f.cfg.GroupID, uuid.NewString()),
		writer:   f.newWriter(),
		ctx:      sessCtx,
		cancel:   cancel,
	}
	f.log.Infof(ctx, "kafka session opened brokers=%v group_id=%s", f.cfg.Brokers, s.groupID)

	go s.watch()
	if handlers.OnConnect != nil {
		go handlers.OnConnect()
	}
	return s, nil
}

func (f *SessionFactory) dialBroker(ctx context.Context) error {
	dctx, cancel := context.WithTimeout(ctx, f.cfg.DialTimeout)
	defer cancel()
	conn, err := kafka.DialContext(dctx, "tcp", f.cfg.Brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}

// readEndOffsets — текущие концы партиций топика. Несуществующий топик — пустая карта.
func (f *SessionFactory) readEndOffsets(ctx context.Context, topic string) (map[int]int64, error) {
	dctx, cancel := context.WithTimeout(ctx, f.cfg.DialTimeout)
	defer cancel()

	conn, err := kafka.DialContext(dctx, "tcp", f.cfg.Brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	parts, err := conn.ReadPartitions(topic)
	if errors.Is(err, kafka.UnknownTopicOrPartition) {
		return map[int]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read partitions %s: %w", topic, err)
	}

	ends := make(map[int]int64, len(parts))
	for _, p := range parts {
		lc, err := kafka.DialLeader(dctx, "tcp", f.cfg.Brokers[0], topic, p.ID)
		if err != nil {
			return nil, fmt.Errorf("dial leader %s/%d: %w", topic, p.ID, err)
		}
		last, err := lc.ReadLastOffset()
		_ = lc.Close()
		if err != nil {
			return nil, fmt.Errorf("last offset %s/%d: %w", topic, p.ID, err)
		}
		ends[p.ID] = last
	}
	return ends, nil
}

// startFloor — для режима last фиксирует концы партиций до запуска читателя.
// Новая группа тогда читает с начала и пропускает всё ниже зафиксированных оффсетов:
// сообщение, опубликованное после возврата Subscribe, не теряется до назначения партиций.
// Если концы узнать не удалось, читатель стартует с LastOffset.
func (f *SessionFactory) startFloor(ctx context.Context, rc *kafka.ReaderConfig) map[int]int64 {
	if rc.StartOffset != kafka.LastOffset {
		return nil
	}
	ends, err := f.endOffsets(ctx, rc.Topic)
	if err != nil {
		f.log.Warnf(ctx, "kafka end offsets unavailable topic=%s, starting from last: %v", rc.Topic, err)
		return nil
	}
	rc.StartOffset = kafka.FirstOffset
	return ends
}

// Session — подписки (по читателю на топик) и общий writer.
type Session struct {
	factory  *SessionFactory
	handlers ports.SessionHandlers
	groupID  string
	writer   writer

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	readers []reader
	down    bool

	closeOnce sync.Once
}

// Subscribe запускает чтение топика; handler вызывается из горутины читателя.
func (s *Session) Subscribe(topic string, handler func(payload []byte)) error {
	if s.ctx.Err() != nil {
		return errors.New("kafka: session closed")
	}
	rc := s.factory.cfg.ReaderConfig(TopicName(topic), s.groupID)
	floor := s.factory.startFloor(s.ctx, &rc)
	r := s.factory.newReader(rc)

	s.mu.Lock()
	s.readers = append(s.readers, r)
	s.mu.Unlock()

	s.factory.log.Infof(s.ctx, "kafka subscribed topic=%s group_id=%s", rc.Topic, rc.GroupID)
	go s.consume(r, handler, floor)
	return nil
}

// Publish пишет сообщение в топик, полученный из адреса назначения.
func (s *Session) Publish(destination string, body []byte) error {
	ctx, cancel := context.WithTimeout(s.ctx, publishTimeout)
	defer cancel()
	if err := s.writer.WriteMessages(ctx, kafka.Message{Topic: TopicName(destination), Value: body}); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", destination, err)
	}
	return nil
}

// Close — идемпотентно; не ждёт завершения обработчиков, только отменяет их.
func (s *Session) Close() (retErr error) {
	s.closeOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		readers := s.readers
		s.readers = nil
		s.mu.Unlock()

		errs := make([]error, 0, len(readers)+1)
		for _, r := range readers {
			errs = append(errs, r.Close())
		}
		errs = append(errs, s.writer.Close())
		retErr = errors.Join(errs...)
	})
	return retErr
}
