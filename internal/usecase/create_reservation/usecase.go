package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
	petClient "github.com/m04kA/PWS-ReservationService/internal/integrations/petservice"
	providerRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/provider"
)

// UseCase use case для создания резервации
type UseCase struct {
	reservationRepo ReservationRepository
	providerRepo    ProviderRepository
	identityClient  IdentityClient
	petClient       PetServiceClient
	notifier        Notifier
	txManager       TransactionManager
	minLeadDays     int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	providerRepo ProviderRepository,
	identityClient IdentityClient,
	petClient PetServiceClient,
	notifier Notifier,
	txManager TransactionManager,
	minLeadDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		providerRepo:    providerRepo,
		identityClient:  identityClient,
		petClient:       petClient,
		notifier:        notifier,
		txManager:       txManager,
		minLeadDays:     minLeadDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания резервации.
// Проверки пересечений и вставка выполняются в одной сериализуемой
// транзакции: конкурирующие заявки на пересекающиеся интервалы
// не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, provider=%d, pet=%d, date=%s, interval=%s-%s",
		req.UserID, req.ProviderID, req.PetID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем минимальный срок подачи
	if err := validateLeadTime(req.Date, now, uc.minLeadDays); err != nil {
		uc.logger.Warn("CreateReservation: lead time validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем заказчика: нужна его домашняя зона для live-событий
	// и переназначения
	user, err := uc.identityClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateReservation: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	// 5. Проверяем, что питомец существует и принадлежит заказчику
	pet, err := uc.petClient.GetPet(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, petClient.ErrPetNotFound) {
			uc.logger.Warn("CreateReservation: pet id=%d not found", req.PetID)
			return nil, ErrPetNotFound
		}
		uc.logger.Error("CreateReservation: failed to get pet id=%d: %v", req.PetID, err)
		return nil, fmt.Errorf("%w: failed to get pet: %v", ErrInternal, err)
	}

	if pet.OwnerID != req.UserID {
		uc.logger.Warn("CreateReservation: pet id=%d belongs to user %d, not %d",
			req.PetID, pet.OwnerID, req.UserID)
		return nil, ErrPetNotOwned
	}

	// Переменные для результата и уведомления
	var result *domain.Reservation
	var providerUserID int64

	// 6. Выполняем проверки пересечений и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем исполнителя с блокировкой строки
		provider, err := uc.providerRepo.GetByID(txCtx, req.ProviderID)
		if err != nil {
			if errors.Is(err, providerRepo.ErrProviderNotFound) {
				uc.logger.Warn("CreateReservation: provider id=%d not found", req.ProviderID)
				return ErrProviderNotFound
			}
			uc.logger.Error("CreateReservation: failed to get provider id=%d: %v", req.ProviderID, err)
			return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
		}

		if !provider.IsAssignable() {
			uc.logger.Warn("CreateReservation: provider id=%d is not assignable", req.ProviderID)
			return ErrProviderNotAssignable
		}
		providerUserID = provider.UserID

		// 6.2. Активные резервации исполнителя на эту дату (FOR UPDATE)
		providerReservations, err := uc.reservationRepo.GetByProviderAndDate(txCtx, req.ProviderID, req.Date, true)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get provider reservations: %v", err)
			return fmt.Errorf("%w: failed to get provider reservations: %v", ErrInternal, err)
		}

		if hasOverlap(req.StartTime, req.EndTime, providerReservations) {
			uc.logger.Warn("CreateReservation: provider id=%d busy at %s %s-%s",
				req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return ErrProviderSlotTaken
		}

		// 6.3. Активные резервации заказчика на эту дату (FOR UPDATE):
		// заказчик не может забронировать сам себя дважды
		userReservations, err := uc.reservationRepo.GetByUserAndDate(txCtx, req.UserID, req.Date, true)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get user reservations: %v", err)
			return fmt.Errorf("%w: failed to get user reservations: %v", ErrInternal, err)
		}

		if hasOverlap(req.StartTime, req.EndTime, userReservations) {
			uc.logger.Warn("CreateReservation: user id=%d already booked at %s %s-%s",
				req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return ErrRequesterSlotTaken
		}

		// 6.4. Создаем резервацию в статусе pending
		reservation := &domain.Reservation{
			UserID:     req.UserID,
			ProviderID: req.ProviderID,
			PetID:      req.PetID,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Status:     domain.StatusPending,
			UserArea:   user.HomeArea,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)

	// 7. Уведомления после фиксации транзакции: письмо исполнителю
	// и live-событие подписчикам зоны. Сбои не влияют на результат.
	uc.notifier.ReservationCreated(ctx, result, providerUserID)

	return &Response{
		ID:         result.ID,
		UserID:     result.UserID,
		ProviderID: result.ProviderID,
		PetID:      result.PetID,
		Date:       result.Date,
		StartTime:  result.StartTime,
		EndTime:    result.EndTime,
		Status:     string(result.Status),
		UserArea:   result.UserArea,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}
