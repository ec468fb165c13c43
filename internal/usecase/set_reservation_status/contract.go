package set_reservation_status

import (
	"context"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, activeOnly bool) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Reassign(ctx context.Context, id int64, newProviderID int64) error
}

// ProviderRepository интерфейс репозитория исполнителей
type ProviderRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	GetAssignableByArea(ctx context.Context, area string) ([]*domain.Provider, error)
	GetWindowsByProviders(ctx context.Context, providerIDs []int64, weekday int) ([]*domain.AvailabilityWindow, error)
}

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// Notifier интерфейс диспетчера уведомлений.
// Вызывается после фиксации транзакции, ошибок не возвращает.
type Notifier interface {
	ReservationAccepted(ctx context.Context, res *domain.Reservation)
	ReservationReassigned(ctx context.Context, res *domain.Reservation, newProviderUserID int64)
	ReservationRejected(ctx context.Context, res *domain.Reservation)
	ReservationCancelled(ctx context.Context, res *domain.Reservation, recipientUserID int64)
	ReservationCompleted(ctx context.Context, res *domain.Reservation)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
