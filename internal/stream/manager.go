// Package stream — единственное логическое подключение к шине сообщений.
//
// Manager подписывается на заказы зоны обслуживания и на персональную очередь
// статусов, на каждом (пере)подключении запрашивает текущие заказы и отдаёт
// события наружу через Callbacks. Колбэки никогда не вызываются под локом менеджера.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
	"github.com/Gunvolt24/orderfeed/pkg/validate"
)

// Адресация на шине; транспорт сам переводит "/" в свой разделитель.
const (
	RequestCurrentDestination = "orders/request-current"
	ordersTopicFmt            = "orders-for-area/%s"
	statusTopicFmt            = "user/%s/status"
)

const DefaultRetryDelay = 5 * time.Second

var ErrAlreadyConnected = errors.New("stream already connected")

// OrdersTopic — топик заказов зоны обслуживания.
func OrdersTopic(serviceAreaCode string) string { return fmt.Sprintf(ordersTopicFmt, serviceAreaCode) }

// StatusTopic — персональная очередь статусов пользователя.
func StatusTopic(userID string) string { return fmt.Sprintf(statusTopicFmt, userID) }

// Callbacks — события подключения. Любое поле может быть nil.
type Callbacks struct {
	OnConnect        func()
	OnDisconnect     func(err error)
	OnOrdersReceived func(orders []domain.Order)
	OnStatusUpdate   func(update domain.StatusUpdate)
	OnError          func(msg string)
}

// RequestCurrent — тело команды «пришлите текущие заказы».
type RequestCurrent struct {
	UserID          string `json:"userId"`
	ServiceAreaCode string `json:"serviceAreaCode"`
}

type Manager struct {
	factory    ports.SessionFactory
	validator  ports.Validator
	log        ports.Logger
	retryDelay time.Duration
	driver     string // метка метрик

	mu         sync.Mutex
	epoch      uint64 // растёт на каждом Connect/Disconnect; события старых сессий отбрасываются
	active     bool
	identity   domain.Identity
	cb         Callbacks
	session    ports.Session
	connected  bool
	subscribed bool
	pendingUp  bool // транспорт сообщил о подключении раньше, чем Open вернул сессию
	cancel     context.CancelFunc
	retry      *time.Timer
}

// NewManager — DI-конструктор. retryDelay <= 0 — DefaultRetryDelay.
func NewManager(factory ports.SessionFactory, validator ports.Validator, log ports.Logger, retryDelay time.Duration, driver string) *Manager {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Manager{
		factory:    factory,
		validator:  validator,
		log:        log,
		retryDelay: retryDelay,
		driver:     driver,
	}
}

// Connect открывает сессию асинхронно. Ошибки транспорта приходят через OnError,
// синхронно возвращаются только нарушения предусловий.
func (m *Manager) Connect(id domain.Identity, cb Callbacks) error {
	if !domain.ValidServiceArea(id.ServiceAreaCode) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidServiceArea, id.ServiceAreaCode)
	}

	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return ErrAlreadyConnected
	}
	m.active = true
	m.epoch++
	epoch := m.epoch
	m.identity = id
	m.cb = cb
	// сессия живёт дольше запроса, который её инициировал
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	m.log.Infof(ctx, "stream connecting user=%s area=%s driver=%s", id.UserID, id.ServiceAreaCode, m.driver)
	go m.open(ctx, epoch)
	return nil
}

// Disconnect — идемпотентно. Поздние события закрытой сессии игнорируются.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.active = false
	m.epoch++
	sess := m.session
	m.session = nil
	m.connected = false
	m.subscribed = false
	m.pendingUp = false
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	id := m.identity
	m.mu.Unlock()

	if sess != nil {
		if err := sess.Close(); err != nil {
			m.log.Warnf(context.Background(), "stream session close failed: %v", err)
		}
	}
	m.log.Infof(context.Background(), "stream disconnected user=%s area=%s", id.UserID, id.ServiceAreaCode)
}

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// ------вспомогательные функции------

func (m *Manager) open(ctx context.Context, epoch uint64) {
	if ctx.Err() != nil {
		return
	}
	handlers := ports.SessionHandlers{
		OnConnect:    func() { m.handleUp(epoch, false) },
		OnReconnect:  func() { m.handleUp(epoch, true) },
		OnDisconnect: func(err error) { m.handleDown(epoch, err) },
		OnError:      func(err error) { m.handleTransportError(epoch, err) },
	}

	sess, err := m.factory.Open(ctx, handlers)

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		if sess != nil {
			_ = sess.Close()
		}
		return
	}
	if err != nil {
		m.retry = time.AfterFunc(m.retryDelay, func() { m.open(ctx, epoch) })
		cb := m.cb
		m.mu.Unlock()

		metrics.BusReconnects.WithLabelValues(m.driver).Inc()
		m.log.Errorf(ctx, "stream open failed, retry in %s: %v", m.retryDelay, err)
		if cb.OnError != nil {
			cb.OnError(fmt.Sprintf("connection failed: %v", err))
		}
		return
	}
	m.session = sess
	pending := m.pendingUp
	m.pendingUp = false
	m.mu.Unlock()

	if pending {
		m.handleUp(epoch, false)
	}
}

// handleUp — подписки (один раз на сессию), запрос текущих заказов, OnConnect.
func (m *Manager) handleUp(epoch uint64, reconnect bool) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	sess := m.session
	if sess == nil {
		m.pendingUp = true
		m.mu.Unlock()
		return
	}
	needSubscribe := !m.subscribed
	m.subscribed = true
	id := m.identity
	cb := m.cb
	m.mu.Unlock()

	ctx := context.Background()
	if needSubscribe {
		if err := m.subscribe(sess, epoch, id); err != nil {
			m.mu.Lock()
			if m.epoch == epoch {
				m.subscribed = false
			}
			m.mu.Unlock()
			m.log.Errorf(ctx, "stream subscribe failed: %v", err)
			if cb.OnError != nil {
				cb.OnError(fmt.Sprintf("subscribe failed: %v", err))
			}
			return
		}
	}

	body, _ := json.Marshal(RequestCurrent{UserID: id.UserID, ServiceAreaCode: id.ServiceAreaCode})
	if err := sess.Publish(RequestCurrentDestination, body); err != nil {
		m.log.Warnf(ctx, "request-current publish failed: %v", err)
		if cb.OnError != nil {
			cb.OnError(fmt.Sprintf("request current orders failed: %v", err))
		}
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.connected = true
	m.mu.Unlock()

	if reconnect {
		metrics.BusReconnects.WithLabelValues(m.driver).Inc()
		m.log.Infof(ctx, "stream reconnected area=%s", id.ServiceAreaCode)
	} else {
		m.log.Infof(ctx, "stream connected area=%s", id.ServiceAreaCode)
	}
	if cb.OnConnect != nil {
		cb.OnConnect()
	}
}

func (m *Manager) subscribe(sess ports.Session, epoch uint64, id domain.Identity) error {
	ordersTopic := OrdersTopic(id.ServiceAreaCode)
	if err := sess.Subscribe(ordersTopic, func(p []byte) { m.handleOrders(epoch, ordersTopic, p) }); err != nil {
		return fmt.Errorf("subscribe %s: %w", ordersTopic, err)
	}
	statusTopic := StatusTopic(id.UserID)
	if err := sess.Subscribe(statusTopic, func(p []byte) { m.handleStatus(epoch, statusTopic, p) }); err != nil {
		return fmt.Errorf("subscribe %s: %w", statusTopic, err)
	}
	return nil
}

func (m *Manager) handleDown(epoch uint64, err error) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	m.connected = false
	cb := m.cb
	m.mu.Unlock()

	m.log.Warnf(context.Background(), "stream disconnected by transport: %v", err)
	if cb.OnDisconnect != nil {
		cb.OnDisconnect(err)
	}
}

func (m *Manager) handleTransportError(epoch uint64, err error) {
	cb, ok := m.callbacks(epoch)
	if !ok {
		return
	}
	m.log.Errorf(context.Background(), "stream transport error: %v", err)
	if cb.OnError != nil {
		cb.OnError(err.Error())
	}
}

// handleOrders — одиночный объект и массив дают ровно один OnOrdersReceived.
func (m *Manager) handleOrders(epoch uint64, topic string, payload []byte) {
	metrics.BusMessagesReceived.WithLabelValues(topic).Inc()
	cb, ok := m.callbacks(epoch)
	if !ok {
		return
	}

	ctx := context.Background()
	res, err := validate.DecodeOrders(ctx, m.validator, payload)
	if res.Dropped > 0 {
		metrics.BusMessagesDropped.WithLabelValues(string(validate.ReasonInvalid)).Add(float64(res.Dropped))
		m.log.Warnf(ctx, "dropped %d invalid orders from %s", res.Dropped, topic)
	}
	if err != nil {
		metrics.BusMessagesDropped.WithLabelValues(string(validate.ReasonOf(err))).Inc()
		m.log.Warnf(ctx, "malformed message on %s dropped: %v", topic, err)
		return
	}
	if cb.OnOrdersReceived != nil {
		cb.OnOrdersReceived(res.Orders)
	}
}

func (m *Manager) handleStatus(epoch uint64, topic string, payload []byte) {
	metrics.BusMessagesReceived.WithLabelValues(topic).Inc()
	cb, ok := m.callbacks(epoch)
	if !ok {
		return
	}

	ctx := context.Background()
	upd, err := validate.DecodeStatusUpdate(ctx, m.validator, payload)
	if err != nil {
		metrics.BusMessagesDropped.WithLabelValues(string(validate.ReasonOf(err))).Inc()
		m.log.Warnf(ctx, "malformed status update on %s dropped: %v", topic, err)
		return
	}
	if cb.OnStatusUpdate != nil {
		cb.OnStatusUpdate(upd)
	}
}

func (m *Manager) callbacks(epoch uint64) (Callbacks, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return Callbacks{}, false
	}
	return m.cb, true
}
