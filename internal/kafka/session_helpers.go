package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// consume — цикл чтения одного топика:
// 1) читаем сообщение без авто-коммита;
// 2) отдаём payload обработчику и коммитим оффсет;
// 3) ошибка чтения → сессия помечается разорванной, повтор через фиксированную задержку.
// Сообщения ниже floor[partition] были в топике до подписки: коммитятся без обработки.
func (s *Session) consume(r reader, handler func([]byte), floor map[int]int64) {
	topic := r.Config().Topic
	for {
		msg, err := r.FetchMessage(s.ctx)
		if err != nil {
			// Если контекст отменен -> выходим
			if s.ctx.Err() != nil {
				return
			}
			s.factory.log.Warnf(s.ctx, "kafka fetch failed topic=%s: %v (will retry in %s)", topic, err, s.factory.cfg.RetryDelay)
			s.markDown(err)
			if !sleepCtx(s.ctx, s.factory.cfg.RetryDelay) {
				return
			}
			continue
		}
		s.markUp()

		if msg.Offset < floor[msg.Partition] {
			s.commitSafely(r, &msg)
			continue
		}
		handler(msg.Value)
		s.commitSafely(r, &msg)
	}
}

// watch — проверка брокера с фиксированным интервалом; переходы состояния
// превращаются в OnDisconnect/OnReconnect.
func (s *Session) watch() {
	ticker := time.NewTicker(s.factory.cfg.RetryDelay)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.factory.probe(s.ctx); err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.markDown(err)
			continue
		}
		s.markUp()
	}
}

func (s *Session) markDown(err error) {
	s.mu.Lock()
	wasDown := s.down
	s.down = true
	s.mu.Unlock()
	if !wasDown && s.handlers.OnDisconnect != nil {
		s.handlers.OnDisconnect(err)
	}
}

func (s *Session) markUp() {
	s.mu.Lock()
	wasDown := s.down
	s.down = false
	s.mu.Unlock()
	if wasDown && s.handlers.OnReconnect != nil {
		s.handlers.OnReconnect()
	}
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (s *Session) commitSafely(r reader, msg *kafka.Message) {
	if err := r.CommitMessages(s.ctx, *msg); err != nil && s.ctx.Err() == nil {
		s.factory.log.Warnf(s.ctx, "commit failed topic=%s offset=%d: %v", msg.Topic, msg.Offset, err)
	}
}

// sleepCtx ждет d или останавливается по контексту.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
