package set_reservation_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/reservation"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// UseCase use case явного перехода статуса резервации.
// Объединяет машину состояний, пассивный перевод просроченных резерваций
// и движок переназначения при отклонении.
type UseCase struct {
	reservationRepo ReservationRepository
	providerRepo    ProviderRepository
	identityClient  IdentityClient
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	providerRepo ProviderRepository,
	identityClient IdentityClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		providerRepo:    providerRepo,
		identityClient:  identityClient,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// notification отложенное уведомление: решение принимается в транзакции,
// рассылка выполняется после фиксации
type notification int

const (
	notifyNone notification = iota
	notifyAccepted
	notifyCancelled
	notifyReassigned
	notifyRejected
	notifyCompleted
)

// Execute выполняет явный переход статуса.
// Пассивный перевод просроченной резервации выполняется первым в той же
// транзакции; переход в rejected запускает движок переназначения до ответа
// вызывающему. Конкурирующий читатель никогда не видит rejected-строку
// без принятого решения о переназначении.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SetReservationStatus: reservation=%d, actor=%d, status=%s",
		req.ReservationID, req.ActorID, req.Status)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SetReservationStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем роль действующего лица: администратор может
	// принудительно выставить любой статус
	actor, err := uc.identityClient.GetUser(ctx, req.ActorID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("SetReservationStatus: actor id=%d not found", req.ActorID)
			return nil, ErrActorMismatch
		}
		uc.logger.Error("SetReservationStatus: failed to get actor id=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: failed to get actor: %v", ErrInternal, err)
	}
	isAdmin := actor.IsAdministrator()

	// 3. Разбираем целевой статус
	newStatus, err := parseTargetStatus(req.Status, isAdmin)
	if err != nil {
		uc.logger.Warn("SetReservationStatus: %v", err)
		return nil, err
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()

	// Результат транзакции
	var result *domain.Reservation
	var notify notification
	var newProviderUserID int64
	var sweptMoot bool

	// 5. Пассивный перевод, проверка перехода и запись — одна
	// сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем резервацию с блокировкой строки
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("SetReservationStatus: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("SetReservationStatus: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 5.2. Проверяем права: действует назначенный исполнитель
		// либо администратор
		if !isAdmin {
			provider, err := uc.providerRepo.GetByUserID(txCtx, req.ActorID)
			if err != nil {
				uc.logger.Warn("SetReservationStatus: actor id=%d is not a provider: %v", req.ActorID, err)
				return ErrActorMismatch
			}
			if provider.ID != res.ProviderID {
				uc.logger.Warn("SetReservationStatus: provider id=%d is not assigned to reservation id=%d",
					provider.ID, res.ID)
				return ErrActorMismatch
			}
		}

		// 5.3. Пассивный перевод по времени: просроченная accepted
		// завершается, просроченная pending отменяется. Выполняется
		// до явного перехода.
		if res.ExpiredAt(now) {
			if swept, ok := res.SweptStatus(); ok {
				if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, swept); err != nil {
					uc.logger.Error("SetReservationStatus: sweep failed for id=%d: %v", res.ID, err)
					return fmt.Errorf("%w: sweep failed: %v", ErrInternal, err)
				}
				res.Status = swept

				uc.logger.Info("SetReservationStatus: reservation id=%d swept to %s", res.ID, swept)

				// Явный запрос стал неактуален, но пассивный перевод
				// фиксируется. Администратор продолжает поверх.
				if !isAdmin {
					result = res
					sweptMoot = true
					return nil
				}
			}
		}

		// 5.4. Административный override: статус пишется без проверки
		// машины состояний и без переназначения
		if isAdmin {
			if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, newStatus); err != nil {
				if errors.Is(err, reservationRepo.ErrReservationNotFound) {
					return ErrReservationNotFound
				}
				uc.logger.Error("SetReservationStatus: force update failed for id=%d: %v", res.ID, err)
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
			res.Status = newStatus
			result = res
			notify = notificationForStatus(newStatus)
			return nil
		}

		// 5.5. Проверяем легальность перехода
		if !res.CanTransitionTo(newStatus) {
			if res.IsTerminal() {
				uc.logger.Warn("SetReservationStatus: reservation id=%d is terminal (%s)", res.ID, res.Status)
				return ErrNoLongerModifiable
			}
			uc.logger.Warn("SetReservationStatus: transition %s -> %s is not allowed for id=%d",
				res.Status, newStatus, res.ID)
			return ErrInvalidTransition
		}

		// 5.6. Переход в rejected: движок переназначения принимает
		// решение в этой же транзакции
		if newStatus == domain.StatusRejected {
			outcome, err := uc.reassign(txCtx, res)
			if err != nil {
				return err
			}

			if outcome.reassigned {
				res.ProviderID = outcome.newProvider.ID
				res.Status = domain.StatusPending
				newProviderUserID = outcome.newProvider.UserID
				notify = notifyReassigned
			} else {
				res.Status = domain.StatusRejected
				notify = notifyRejected
			}
			result = res
			return nil
		}

		// 5.7. Обычный переход
		if err := uc.reservationRepo.UpdateStatus(txCtx, res.ID, newStatus); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			uc.logger.Error("SetReservationStatus: failed to update status for id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}
		res.Status = newStatus
		result = res

		switch newStatus {
		case domain.StatusAccepted:
			notify = notifyAccepted
		case domain.StatusCancelled:
			notify = notifyCancelled
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 6. Пассивный перевод зафиксирован, явный запрос опоздал
	if sweptMoot {
		return nil, ErrNoLongerModifiable
	}

	// 7. Уведомления после фиксации транзакции. Сбои не влияют на результат.
	switch notify {
	case notifyAccepted:
		uc.notifier.ReservationAccepted(ctx, result)
	case notifyCancelled:
		uc.notifier.ReservationCancelled(ctx, result, result.UserID)
	case notifyReassigned:
		uc.notifier.ReservationReassigned(ctx, result, newProviderUserID)
	case notifyRejected:
		uc.notifier.ReservationRejected(ctx, result)
	case notifyCompleted:
		uc.notifier.ReservationCompleted(ctx, result)
	}

	uc.logger.Info("SetReservationStatus: reservation id=%d is now %s", result.ID, result.Status)

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
		Reassigned: notify == notifyReassigned,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// notificationForStatus уведомление для административного override
func notificationForStatus(status domain.ReservationStatus) notification {
	switch status {
	case domain.StatusAccepted:
		return notifyAccepted
	case domain.StatusCancelled:
		return notifyCancelled
	case domain.StatusRejected:
		return notifyRejected
	case domain.StatusCompleted:
		return notifyCompleted
	default:
		return notifyNone
	}
}
