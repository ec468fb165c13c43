package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/PWS-ReservationService/internal/infra/storage/reservation"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
	"github.com/m04kA/PWS-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения и отмены резерваций.
// Каждое чтение сначала выполняет пассивный перевод просроченных строк
// (accepted → completed, pending → cancelled) в той же транзакции,
// поэтому клиент никогда не видит просроченную активную резервацию.
type Service struct {
	reservationRepo ReservationRepository
	providerRepo    ProviderRepository
	identityClient  IdentityClient
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса резерваций
func NewService(
	reservationRepo ReservationRepository,
	providerRepo ProviderRepository,
	identityClient IdentityClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		providerRepo:    providerRepo,
		identityClient:  identityClient,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает резервацию по ID.
// Доступ: заказчик, назначенный исполнитель или администратор.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	now := s.timeProvider.Now()

	var result *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("GetByID: reservation id=%d not found", id)
				return ErrReservationNotFound
			}
			s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
			return fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
		}

		if err := s.checkReadAccess(txCtx, res, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
			return err
		}

		if err := s.sweep(txCtx, res, now); err != nil {
			return err
		}

		result = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(result), nil
}

// GetUserReservations получает историю резерваций заказчика.
// Опционально фильтрует по статусу.
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	filter := domain.UserReservationsFilter{UserID: req.UserID}
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	now := s.timeProvider.Now()

	var result []*domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservations, err := s.reservationRepo.GetByUser(txCtx, filter)
		if err != nil {
			s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
			return fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
		}

		for _, res := range reservations {
			if err := s.sweep(txCtx, res, now); err != nil {
				return err
			}
		}

		// Пассивный перевод мог вывести строку из-под фильтра
		result = filterByStatus(reservations, filter.Status, false)
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(result), req.UserID)
	return models.FromDomainReservationList(result), nil
}

// GetProviderReservations получает рабочий список исполнителя.
// Доступ: сам исполнитель или администратор.
func (s *Service) GetProviderReservations(ctx context.Context, req *models.GetProviderReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetProviderReservations: fetching reservations for provider=%d, user=%d", req.ProviderID, req.UserID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderReservations: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	if err := s.checkProviderAccess(ctx, req.ProviderID, req.UserID); err != nil {
		s.logger.Warn("GetProviderReservations: access denied for user=%d to provider=%d", req.UserID, req.ProviderID)
		return nil, err
	}

	now := s.timeProvider.Now()

	var result []*domain.Reservation

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservations, err := s.reservationRepo.GetByProvider(txCtx, filter)
		if err != nil {
			s.logger.Error("GetProviderReservations: repository error for provider=%d: %v", req.ProviderID, err)
			return fmt.Errorf("%w: GetProviderReservations - repository error: %v", ErrInternal, err)
		}

		for _, res := range reservations {
			if err := s.sweep(txCtx, res, now); err != nil {
				return err
			}
		}

		result = filterByStatus(reservations, filter.Status, filter.ActiveOnly)
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("GetProviderReservations: successfully fetched %d reservations for provider=%d", len(result), req.ProviderID)
	return models.FromDomainReservationList(result), nil
}

// Cancel отменяет резервацию. Заказчик может отменить только свою
// активную резервацию; исполнителю и администратору служит смена статуса.
// Исполнитель уведомляется после фиксации транзакции.
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	now := s.timeProvider.Now()

	var result *domain.Reservation
	var providerUserID int64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if res.UserID != req.UserID {
			s.logger.Warn("Cancel: user=%d does not own reservation id=%d", req.UserID, reservationID)
			return ErrAccessDenied
		}

		// Пассивный перевод первым: просроченную резервацию
		// отменить уже нельзя
		if err := s.sweep(txCtx, res, now); err != nil {
			return err
		}

		if !res.CanBeCancelled() {
			s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, res.Status)
			return ErrCannotCancel
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, domain.StatusCancelled); err != nil {
			s.logger.Error("Cancel: failed to update status for id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - failed to update status: %v", ErrInternal, err)
		}
		res.Status = domain.StatusCancelled

		provider, err := s.providerRepo.GetByID(txCtx, res.ProviderID)
		if err != nil {
			s.logger.Error("Cancel: failed to get provider id=%d: %v", res.ProviderID, err)
			return fmt.Errorf("%w: Cancel - failed to get provider: %v", ErrInternal, err)
		}
		providerUserID = provider.UserID

		result = res
		return nil
	})

	if err != nil {
		return err
	}

	// Уведомление после фиксации транзакции. Сбой не влияет на результат.
	s.notifier.ReservationCancelled(ctx, result, providerUserID)

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)
	return nil
}

// sweep выполняет пассивный перевод просроченной резервации:
// accepted → completed, pending → cancelled. Идемпотентен.
func (s *Service) sweep(ctx context.Context, res *domain.Reservation, now time.Time) error {
	if !res.ExpiredAt(now) {
		return nil
	}

	swept, ok := res.SweptStatus()
	if !ok {
		return nil
	}

	if err := s.reservationRepo.UpdateStatus(ctx, res.ID, swept); err != nil {
		s.logger.Error("sweep: failed to advance reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: sweep - failed to update status: %v", ErrInternal, err)
	}

	s.logger.Info("sweep: reservation id=%d advanced %s -> %s", res.ID, res.Status, swept)
	res.Status = swept
	return nil
}

// checkReadAccess проверяет право на чтение резервации: заказчик,
// назначенный исполнитель или администратор
func (s *Service) checkReadAccess(ctx context.Context, res *domain.Reservation, userID int64) error {
	if res.UserID == userID {
		return nil
	}

	provider, err := s.providerRepo.GetByUserID(ctx, userID)
	if err == nil && provider.ID == res.ProviderID {
		return nil
	}

	if s.isAdministrator(ctx, userID) {
		return nil
	}

	return ErrAccessDenied
}

// checkProviderAccess проверяет право на чтение рабочего списка исполнителя
func (s *Service) checkProviderAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		s.logger.Warn("checkProviderAccess: provider id=%d not found: %v", providerID, err)
		return ErrProviderNotFound
	}

	if provider.UserID == userID {
		return nil
	}

	if s.isAdministrator(ctx, userID) {
		return nil
	}

	return ErrAccessDenied
}

// isAdministrator проверяет роль пользователя в identity-сервисе
func (s *Service) isAdministrator(ctx context.Context, userID int64) bool {
	user, err := s.identityClient.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, identityClient.ErrUserNotFound) {
			s.logger.Error("isAdministrator: failed to get user id=%d: %v", userID, err)
		}
		return false
	}
	return user.IsAdministrator()
}

// filterByStatus отбрасывает строки, выведенные пассивным переводом
// из-под фильтра запроса
func filterByStatus(reservations []*domain.Reservation, status *domain.ReservationStatus, activeOnly bool) []*domain.Reservation {
	result := make([]*domain.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if status != nil && res.Status != *status {
			continue
		}
		if activeOnly && !res.IsActive() {
			continue
		}
		result = append(result, res)
	}
	return result
}
