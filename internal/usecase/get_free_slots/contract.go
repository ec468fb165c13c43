package get_free_slots

import (
	"context"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// ProviderRepository интерфейс репозитория исполнителей
type ProviderRepository interface {
	GetAssignableByArea(ctx context.Context, area string) ([]*domain.Provider, error)
	GetWindowsByProviders(ctx context.Context, providerIDs []int64, weekday int) ([]*domain.AvailabilityWindow, error)
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetActiveByProvidersAndDate(ctx context.Context, providerIDs []int64, date time.Time) ([]*domain.Reservation, error)
}

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// Config параметры расчета сетки слотов
type Config struct {
	SlotStepMinutes int // Шаг сетки слотов в минутах
	HorizonDays     int // Горизонт выдачи в днях
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
