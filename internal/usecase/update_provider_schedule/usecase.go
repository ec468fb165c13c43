package update_provider_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	providerRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/provider"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// UseCase use case замены расписания и зон обслуживания исполнителя
type UseCase struct {
	providerRepo     ProviderRepository
	reservationRepo  ReservationRepository
	identityClient   IdentityClient
	txManager        TransactionManager
	editCooldownDays int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	reservationRepo ReservationRepository,
	identityClient IdentityClient,
	txManager TransactionManager,
	editCooldownDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		providerRepo:     providerRepo,
		reservationRepo:  reservationRepo,
		identityClient:   identityClient,
		txManager:        txManager,
		editCooldownDays: editCooldownDays,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет замену расписания. Guard-предикаты (запрет частых
// изменений и блокировка при незавершенных резервациях) проверяются
// внутри той же сериализуемой транзакции, что и запись — отдельная
// предварительная проверка оставляла бы гонку.
// Администратор обходит оба ограничения (override).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateProviderSchedule: provider=%d, actor=%d, windows=%d, areas=%d",
		req.ProviderID, req.ActorID, len(req.Windows), len(req.ExtraAreas))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateProviderSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем роль действующего лица
	actor, err := uc.identityClient.GetUser(ctx, req.ActorID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("UpdateProviderSchedule: actor id=%d not found", req.ActorID)
			return nil, ErrAccessDenied
		}
		uc.logger.Error("UpdateProviderSchedule: failed to get actor id=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: failed to get actor: %v", ErrInternal, err)
	}
	isAdmin := actor.IsAdministrator()

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()
	cooldown := time.Duration(uc.editCooldownDays) * 24 * time.Hour

	// 4. Guard-предикаты и замена — одна сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем исполнителя с блокировкой строки
		provider, err := uc.providerRepo.GetByID(txCtx, req.ProviderID)
		if err != nil {
			if errors.Is(err, providerRepo.ErrProviderNotFound) {
				uc.logger.Warn("UpdateProviderSchedule: provider id=%d not found", req.ProviderID)
				return ErrProviderNotFound
			}
			uc.logger.Error("UpdateProviderSchedule: failed to get provider id=%d: %v", req.ProviderID, err)
			return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
		}

		// 4.2. Менять расписание может сам исполнитель или администратор
		if !isAdmin && provider.UserID != req.ActorID {
			uc.logger.Warn("UpdateProviderSchedule: actor id=%d does not own provider id=%d",
				req.ActorID, req.ProviderID)
			return ErrAccessDenied
		}

		if !isAdmin {
			// 4.3. Запрет частых изменений
			if !provider.CanEditSchedule(now, cooldown) {
				uc.logger.Warn("UpdateProviderSchedule: provider id=%d is within edit cooldown", req.ProviderID)
				return ErrEditCooldown
			}

			// 4.4. Блокировка при незавершенных резервациях
			hasActive, err := uc.reservationRepo.HasActiveByProvider(txCtx, req.ProviderID)
			if err != nil {
				uc.logger.Error("UpdateProviderSchedule: failed to check active reservations: %v", err)
				return fmt.Errorf("%w: failed to check active reservations: %v", ErrInternal, err)
			}
			if hasActive {
				uc.logger.Warn("UpdateProviderSchedule: provider id=%d has active reservations", req.ProviderID)
				return ErrActiveReservations
			}
		}

		// 4.5. Полная замена окон доступности
		windows := make([]*domain.AvailabilityWindow, len(req.Windows))
		for i, w := range req.Windows {
			windows[i] = &domain.AvailabilityWindow{
				ProviderID: req.ProviderID,
				Weekday:    w.Weekday,
				StartTime:  w.StartTime,
				EndTime:    w.EndTime,
			}
		}

		if err := uc.providerRepo.ReplaceWindows(txCtx, req.ProviderID, windows); err != nil {
			uc.logger.Error("UpdateProviderSchedule: failed to replace windows: %v", err)
			return fmt.Errorf("%w: failed to replace windows: %v", ErrInternal, err)
		}

		// 4.6. Полная замена дополнительных зон
		if err := uc.providerRepo.ReplaceExtraAreas(txCtx, req.ProviderID, req.ExtraAreas); err != nil {
			uc.logger.Error("UpdateProviderSchedule: failed to replace extra areas: %v", err)
			return fmt.Errorf("%w: failed to replace extra areas: %v", ErrInternal, err)
		}

		// 4.7. Обновляем отметку изменения расписания
		if err := uc.providerRepo.TouchScheduleUpdatedAt(txCtx, req.ProviderID, now); err != nil {
			uc.logger.Error("UpdateProviderSchedule: failed to touch schedule stamp: %v", err)
			return fmt.Errorf("%w: failed to update schedule stamp: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateProviderSchedule: provider id=%d schedule replaced", req.ProviderID)

	return &Response{
		ProviderID:        req.ProviderID,
		Windows:           req.Windows,
		ExtraAreas:        req.ExtraAreas,
		ScheduleUpdatedAt: now,
	}, nil
}
