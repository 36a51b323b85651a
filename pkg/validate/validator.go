package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Gunvolt24/orderfeed/internal/ports"
)

// Проверка, что Validator удовлетворяет интерфейсу ports.Validator.
var _ ports.Validator = (*Validator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// Validator — проверка по struct-тегам `validate`; имена полей в ошибках берутся из json-тегов.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate возвращает ErrInvalidOrder с перечнем нарушенных правил.
func (v *Validator) Validate(_ context.Context, x any) error {
	err := v.v.Struct(x)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOrder, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s обязателен", fe.Field())
	case "gte":
		return fmt.Sprintf("%s должен быть >= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s не прошёл проверку %s", fe.Field(), fe.Tag())
	}
}
