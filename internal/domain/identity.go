package domain

import (
	"errors"
	"strings"
)

// ServiceAreaDigits — длина почтового кода зоны обслуживания.
const ServiceAreaDigits = 6

// ErrInvalidServiceArea — код зоны обслуживания не прошёл проверку.
var ErrInvalidServiceArea = errors.New("invalid service area code")

// Identity — пользователь и его зона обслуживания.
type Identity struct {
	UserID          string `json:"userId"`
	ServiceAreaCode string `json:"serviceAreaCode"`
}

// Ready — identity пригодна для старта конвейера.
func (i Identity) Ready() bool {
	return strings.TrimSpace(i.UserID) != "" && ValidServiceArea(i.ServiceAreaCode)
}

// ValidServiceArea — непустой, только цифры, ровно ServiceAreaDigits знаков, не ноль.
func ValidServiceArea(code string) bool {
	if len(code) != ServiceAreaDigits {
		return false
	}
	nonZero := false
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
		if r != '0' {
			nonZero = true
		}
	}
	return nonZero
}
