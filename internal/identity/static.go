// Package identity — источник текущего пользователя из конфигурации.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports"
)

var _ ports.IdentityProvider = (*Static)(nil)

// ErrNoUser — пользователь не задан.
var ErrNoUser = errors.New("user id is not configured")

// Static — фиксированный пользователь; зону обслуживания можно сменить в рантайме.
type Static struct {
	mu       sync.RWMutex
	userID   string
	areaCode string
}

func NewStatic(userID, serviceAreaCode string) *Static {
	return &Static{
		userID:   strings.TrimSpace(userID),
		areaCode: strings.TrimSpace(serviceAreaCode),
	}
}

// CurrentUser — код зоны отдаётся как есть, даже невалидный: решение «простаивать» принимает конвейер.
func (s *Static) CurrentUser(_ context.Context) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.userID == "" {
		return domain.Identity{}, ErrNoUser
	}
	return domain.Identity{UserID: s.userID, ServiceAreaCode: s.areaCode}, nil
}

func (s *Static) UpdateServiceArea(_ context.Context, code string) error {
	code = strings.TrimSpace(code)
	if !domain.ValidServiceArea(code) {
		return domain.ErrInvalidServiceArea
	}

	s.mu.Lock()
	s.areaCode = code
	s.mu.Unlock()
	return nil
}
