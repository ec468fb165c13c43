package get_free_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	identityClient "github.com/m04kA/PWS-ReservationService/internal/integrations/identity"
)

// UseCase use case для получения свободных слотов зоны обслуживания
type UseCase struct {
	providerRepo    ProviderRepository
	reservationRepo ReservationRepository
	identityClient  IdentityClient
	config          Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	reservationRepo ReservationRepository,
	identityClient IdentityClient,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		providerRepo:    providerRepo,
		reservationRepo: reservationRepo,
		identityClient:  identityClient,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Слоты считаются на горизонт дат, начиная с запрошенной, и группируются
// по дате и времени начала.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: user=%d, area=%q, date=%s",
		req.UserID, req.Area, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Определяем зону: явная из запроса или домашняя зона заказчика
	area := req.Area
	if area == "" {
		user, err := uc.identityClient.GetUser(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, identityClient.ErrUserNotFound) {
				uc.logger.Warn("GetFreeSlots: user id=%d not found", req.UserID)
				return nil, ErrUserNotFound
			}
			uc.logger.Error("GetFreeSlots: failed to get user id=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
		}
		area = user.HomeArea
	}

	// 4. Получаем исполнителей зоны: одобренных и не на паузе,
	// по возрастанию ID
	providers, err := uc.providerRepo.GetAssignableByArea(ctx, area)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to get providers for area %q: %v", area, err)
		return nil, fmt.Errorf("%w: failed to get providers: %v", ErrInternal, err)
	}

	if len(providers) == 0 {
		uc.logger.Info("GetFreeSlots: no assignable providers in area %q", area)
		return &Response{Area: area, Days: []DaySlots{}}, nil
	}

	providerIDs := make([]int64, len(providers))
	for i, p := range providers {
		providerIDs[i] = p.ID
	}

	// 5. Считаем слоты на каждый день горизонта
	days := make([]DaySlots, 0, uc.config.HorizonDays)

	for offset := 0; offset < uc.config.HorizonDays; offset++ {
		date := req.Date.AddDate(0, 0, offset)

		// Прошедшие даты не возвращаются
		if isDateInPast(date, now) {
			continue
		}

		weekday := domain.ISOWeekday(date)

		windows, err := uc.providerRepo.GetWindowsByProviders(ctx, providerIDs, weekday)
		if err != nil {
			uc.logger.Error("GetFreeSlots: failed to get windows for weekday %d: %v", weekday, err)
			return nil, fmt.Errorf("%w: failed to get availability windows: %v", ErrInternal, err)
		}

		reservations, err := uc.reservationRepo.GetActiveByProvidersAndDate(ctx, providerIDs, date)
		if err != nil {
			uc.logger.Error("GetFreeSlots: failed to get reservations for %s: %v",
				date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		slots, err := mergeSlots(uc.config.SlotStepMinutes, providers, windows, reservations)
		if err != nil {
			uc.logger.Error("GetFreeSlots: failed to merge slots for %s: %v",
				date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to merge slots: %v", ErrInternal, err)
		}

		days = append(days, DaySlots{
			Date:    date,
			Weekday: weekday,
			Slots:   slots,
		})
	}

	uc.logger.Info("GetFreeSlots: computed %d days for area %q starting %s",
		len(days), area, req.Date.Format(domain.DateFormat))

	return &Response{
		Area: area,
		Days: days,
	}, nil
}
