package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/petservice"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, activeOnly bool) ([]*domain.Reservation, error)
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time, activeOnly bool) ([]*domain.Reservation, error)
}

// ProviderRepository интерфейс репозитория исполнителей
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// PetServiceClient интерфейс клиента pet-сервиса
type PetServiceClient interface {
	GetPet(ctx context.Context, petID int64) (*petservice.Pet, error)
}

// Notifier интерфейс диспетчера уведомлений.
// Вызывается после фиксации транзакции, ошибок не возвращает.
type Notifier interface {
	ReservationCreated(ctx context.Context, res *domain.Reservation, providerUserID int64)
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
