package set_reservation_status

import (
	"context"
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

// reassignOutcome результат работы движка переназначения
type reassignOutcome struct {
	// Найден ли кандидат; при false резервация остается rejected
	reassigned bool

	// Новый исполнитель (nil при reassigned = false)
	newProvider *domain.Provider
}

// reassign ищет замену отклонившему исполнителю и либо переназначает
// резервацию (статус сбрасывается в pending), либо оставляет ее rejected.
// Кандидаты: одобренные, не на паузе, покрывают зону заказчика, имеют окно,
// целиком вмещающее интервал, и свободны в нем. Отклонивший исполнитель
// исключается. Выбирается первый подходящий по возрастанию ID исполнителя —
// порядок произвольный, не семантический.
// Вызывается внутри той же транзакции, что и переход в rejected.
func (uc *UseCase) reassign(ctx context.Context, res *domain.Reservation) (*reassignOutcome, error) {
	candidates, err := uc.providerRepo.GetAssignableByArea(ctx, res.UserArea)
	if err != nil {
		return nil, fmt.Errorf("%w: reassign - failed to get candidates: %v", ErrInternal, err)
	}

	eligible := make([]*domain.Provider, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == res.ProviderID {
			continue
		}
		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		return uc.keepRejected(ctx, res)
	}

	ids := make([]int64, len(eligible))
	for i, c := range eligible {
		ids[i] = c.ID
	}

	weekday := domain.ISOWeekday(res.Date)

	windows, err := uc.providerRepo.GetWindowsByProviders(ctx, ids, weekday)
	if err != nil {
		return nil, fmt.Errorf("%w: reassign - failed to get windows: %v", ErrInternal, err)
	}

	windowsByProvider := make(map[int64][]*domain.AvailabilityWindow)
	for _, w := range windows {
		windowsByProvider[w.ProviderID] = append(windowsByProvider[w.ProviderID], w)
	}

	for _, candidate := range eligible {
		if !windowContains(windowsByProvider[candidate.ID], res) {
			continue
		}

		candidateReservations, err := uc.reservationRepo.GetByProviderAndDate(ctx, candidate.ID, res.Date, true)
		if err != nil {
			return nil, fmt.Errorf("%w: reassign - failed to get candidate reservations: %v", ErrInternal, err)
		}

		if hasOverlap(res, candidateReservations) {
			continue
		}

		if err := uc.reservationRepo.Reassign(ctx, res.ID, candidate.ID); err != nil {
			return nil, fmt.Errorf("%w: reassign - failed to reassign reservation: %v", ErrInternal, err)
		}

		uc.logger.Info("SetReservationStatus: reservation id=%d reassigned from provider %d to %d",
			res.ID, res.ProviderID, candidate.ID)

		return &reassignOutcome{reassigned: true, newProvider: candidate}, nil
	}

	return uc.keepRejected(ctx, res)
}

// keepRejected фиксирует терминальное отклонение: кандидатов нет,
// резервация остается rejected
func (uc *UseCase) keepRejected(ctx context.Context, res *domain.Reservation) (*reassignOutcome, error) {
	if err := uc.reservationRepo.UpdateStatus(ctx, res.ID, domain.StatusRejected); err != nil {
		return nil, fmt.Errorf("%w: reassign - failed to update status: %v", ErrInternal, err)
	}

	uc.logger.Info("SetReservationStatus: no candidate for reservation id=%d, stays rejected", res.ID)

	return &reassignOutcome{reassigned: false}, nil
}

// windowContains проверяет, что хотя бы одно окно кандидата целиком
// вмещает интервал резервации
func windowContains(windows []*domain.AvailabilityWindow, res *domain.Reservation) bool {
	for _, w := range windows {
		if w.Contains(res.StartTime, res.EndTime) {
			return true
		}
	}
	return false
}
