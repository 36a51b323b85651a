package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports"
)

// DropReason — причина, по которой сообщение шины отброшено (метка метрики).
type DropReason string

const (
	ReasonNotJSON   DropReason = "not_json"
	ReasonNoOrderID DropReason = "no_order_id"
	ReasonEmpty     DropReason = "empty"
	ReasonInvalid   DropReason = "invalid"
)

// ErrMalformedPayload — сообщение не удалось привести к списку заказов.
var ErrMalformedPayload = errors.New("malformed payload")

// PayloadError — отброшенное сообщение с причиной.
type PayloadError struct {
	Reason DropReason
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrMalformedPayload, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedPayload, e.Reason, e.Err)
}

func (e *PayloadError) Is(target error) bool { return target == ErrMalformedPayload }
func (e *PayloadError) Unwrap() error        { return e.Err }

// Payload — результат нормализации одного сообщения.
type Payload struct {
	Orders  []domain.Order
	Dropped int // элементы массива, не прошедшие проверку
}

// DecodeOrders приводит сообщение шины к списку заказов.
// Источник присылает то массив, то одиночный объект; объект распознаётся
// по наличию orderId и считается массивом из одного элемента.
// Невалидные элементы массива отбрасываются поштучно; если не осталось ни одного — ошибка.
func DecodeOrders(ctx context.Context, v ports.Validator, raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Payload{}, &PayloadError{Reason: ReasonNotJSON, Err: errors.New("empty message")}
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return Payload{}, &PayloadError{Reason: ReasonNotJSON, Err: err}
		}
		var res Payload
		for _, el := range elems {
			order, err := decodeOne(ctx, v, el)
			if err != nil {
				res.Dropped++
				continue
			}
			res.Orders = append(res.Orders, order)
		}
		if len(res.Orders) == 0 {
			return res, &PayloadError{Reason: ReasonEmpty}
		}
		return res, nil

	case '{':
		order, err := decodeOne(ctx, v, trimmed)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Orders: []domain.Order{order}}, nil

	default:
		if !json.Valid(trimmed) {
			return Payload{}, &PayloadError{Reason: ReasonNotJSON, Err: errors.New("not a json document")}
		}
		return Payload{}, &PayloadError{Reason: ReasonNoOrderID, Err: errors.New("neither object nor array")}
	}
}

func decodeOne(ctx context.Context, v ports.Validator, raw []byte) (domain.Order, error) {
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, &PayloadError{Reason: ReasonNotJSON, Err: err}
	}
	if order.OrderID == "" {
		return domain.Order{}, &PayloadError{Reason: ReasonNoOrderID}
	}
	if v != nil {
		if err := v.Validate(ctx, &order); err != nil {
			return domain.Order{}, &PayloadError{Reason: ReasonInvalid, Err: err}
		}
	}
	return order, nil
}

// DecodeStatusUpdate — разбор сообщения из персональной очереди статусов.
func DecodeStatusUpdate(ctx context.Context, v ports.Validator, raw []byte) (domain.StatusUpdate, error) {
	var upd domain.StatusUpdate
	if err := json.Unmarshal(bytes.TrimSpace(raw), &upd); err != nil {
		return domain.StatusUpdate{}, &PayloadError{Reason: ReasonNotJSON, Err: err}
	}
	if v != nil {
		if err := v.Validate(ctx, &upd); err != nil {
			return domain.StatusUpdate{}, &PayloadError{Reason: ReasonInvalid, Err: err}
		}
	}
	return upd, nil
}

// ReasonOf — причина отбрасывания для метрик; для чужих ошибок — ReasonInvalid.
func ReasonOf(err error) DropReason {
	var pe *PayloadError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonInvalid
}
