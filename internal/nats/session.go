// Package nats — транспорт шины поверх nats.go.
// Переподключение с фиксированной задержкой и без ограничения попыток выполняет сам клиент.
package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

var _ ports.SessionFactory = (*SessionFactory)(nil)

type Config struct {
	URL            string
	Name           string
	ReconnectDelay time.Duration
	ConnectTimeout time.Duration
}

// conn — используемая часть *nats.Conn.
type conn interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Publish(subj string, data []byte) error
	IsConnected() bool
	Close()
}

type connectFunc func(url string, opts ...nats.Option) (conn, error)

type SessionFactory struct {
	cfg     Config
	log     ports.Logger
	connect connectFunc
}

func NewSessionFactory(cfg Config, log ports.Logger) *SessionFactory {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	return &SessionFactory{
		cfg: cfg,
		log: log,
		connect: func(url string, opts ...nats.Option) (conn, error) {
			return nats.Connect(url, opts...)
		},
	}
}

// Subject переводит адрес вида "a/b/c" в subject NATS ("a.b.c").
func Subject(destination string) string {
	return strings.ReplaceAll(strings.Trim(destination, "/"), "/", ".")
}

// Open подключается к серверу. Если сервер недоступен, клиент продолжает
// попытки в фоне, а OnConnect придёт после первого успешного подключения.
func (f *SessionFactory) Open(ctx context.Context, handlers ports.SessionHandlers) (ports.Session, error) {
	s := &Session{handlers: handlers, log: f.log}

	opts := []nats.Option{
		nats.Name(f.cfg.Name),
		nats.Timeout(f.cfg.ConnectTimeout),
		nats.ReconnectWait(f.cfg.ReconnectDelay),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
		nats.ConnectHandler(func(*nats.Conn) { s.connectedOnce() }),
		nats.ReconnectHandler(func(*nats.Conn) {
			if !s.isClosed() && handlers.OnReconnect != nil {
				handlers.OnReconnect()
			}
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if !s.isClosed() && handlers.OnDisconnect != nil {
				handlers.OnDisconnect(err)
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			if s.isClosed() || handlers.OnError == nil {
				return
			}
			if sub != nil {
				err = fmt.Errorf("subject %s: %w", sub.Subject, err)
			}
			handlers.OnError(err)
		}),
	}

	nc, err := f.connect(f.cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", f.cfg.URL, err)
	}
	s.nc = nc
	f.log.Infof(ctx, "nats session opened url=%s connected=%t", f.cfg.URL, nc.IsConnected())

	if nc.IsConnected() {
		// ConnectHandler мог и не сработать при удачном первом подключении
		go s.connectedOnce()
	}
	return s, nil
}

type Session struct {
	nc       conn
	handlers ports.SessionHandlers
	log      ports.Logger

	connectOnce sync.Once
	closeOnce   sync.Once

	mu     sync.Mutex
	closed bool
}

func (s *Session) Subscribe(topic string, handler func(payload []byte)) error {
	if s.isClosed() {
		return errors.New("nats: session closed")
	}
	subj := Subject(topic)
	if _, err := s.nc.Subscribe(subj, func(m *nats.Msg) { handler(m.Data) }); err != nil {
		return fmt.Errorf("nats: subscribe %s: %w", subj, err)
	}
	s.log.Infof(context.Background(), "nats subscribed subject=%s", subj)
	return nil
}

func (s *Session) Publish(destination string, body []byte) error {
	if s.isClosed() {
		return errors.New("nats: session closed")
	}
	if err := s.nc.Publish(Subject(destination), body); err != nil {
		return fmt.Errorf("nats: publish %s: %w", destination, err)
	}
	return nil
}

// Close — идемпотентно; события клиента после закрытия не пробрасываются.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.nc.Close()
	})
	return nil
}

func (s *Session) connectedOnce() {
	s.connectOnce.Do(func() {
		if !s.isClosed() && s.handlers.OnConnect != nil {
			s.handlers.OnConnect()
		}
	})
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
