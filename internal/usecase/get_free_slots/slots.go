package get_free_slots

import (
	"sort"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// slotAccumulator промежуточное состояние слота при группировке по времени начала
type slotAccumulator struct {
	providerIDs []int64
	reserved    bool
}

// mergeSlots строит сетку слотов одной даты: для каждого исполнителя обходит
// его окна доступности с фиксированным шагом, отбрасывает слоты, пересекающиеся
// с активными резервациями, и группирует результат по времени начала.
// Детерминированная чистая функция своих входов, без побочных эффектов.
func mergeSlots(
	stepMinutes int,
	providers []*domain.Provider,
	windows []*domain.AvailabilityWindow,
	reservations []*domain.Reservation,
) ([]Slot, error) {
	windowsByProvider := make(map[int64][]*domain.AvailabilityWindow)
	for _, w := range windows {
		windowsByProvider[w.ProviderID] = append(windowsByProvider[w.ProviderID], w)
	}

	reservationsByProvider := make(map[int64][]*domain.Reservation)
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		reservationsByProvider[r.ProviderID] = append(reservationsByProvider[r.ProviderID], r)
	}

	accumulators := make(map[types.TimeString]*slotAccumulator)

	// Исполнители приходят по возрастанию ID, поэтому providerIDs
	// внутри каждого слота сразу отсортированы
	for _, p := range providers {
		for _, w := range windowsByProvider[p.ID] {
			if err := walkWindow(w, stepMinutes, reservationsByProvider[p.ID], accumulators); err != nil {
				return nil, err
			}
		}
	}

	starts := make([]types.TimeString, 0, len(accumulators))
	for start, acc := range accumulators {
		// Слоты без свободных исполнителей и без брони не показываются
		if len(acc.providerIDs) == 0 && !acc.reserved {
			continue
		}
		starts = append(starts, start)
	}

	sort.Slice(starts, func(i, j int) bool {
		return starts[i].IsBefore(starts[j])
	})

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		acc := accumulators[start]

		// Занятый слот отдается без исполнителей, даже если другие
		// исполнители зоны свободны в это же время
		providerIDs := acc.providerIDs
		if acc.reserved {
			providerIDs = []int64{}
		}

		slots = append(slots, Slot{
			StartTime:       start,
			DurationMinutes: stepMinutes,
			ProviderIDs:     providerIDs,
			Reserved:        acc.reserved,
		})
	}

	return slots, nil
}

// walkWindow обходит окно доступности с фиксированным шагом, добавляя
// кандидатов в аккумуляторы. Слот, не помещающийся в окно целиком,
// не эмитится.
func walkWindow(
	window *domain.AvailabilityWindow,
	stepMinutes int,
	providerReservations []*domain.Reservation,
	accumulators map[types.TimeString]*slotAccumulator,
) error {
	current := window.StartTime

	for current.IsBefore(window.EndTime) {
		slotEnd, err := current.AddMinutes(stepMinutes)
		if err != nil {
			return err
		}
		if window.EndTime.IsBefore(slotEnd) {
			break
		}

		acc := accumulators[current]
		if acc == nil {
			acc = &slotAccumulator{providerIDs: make([]int64, 0)}
			accumulators[current] = acc
		}

		if hasOverlap(current, slotEnd, providerReservations) {
			acc.reserved = true
		} else {
			acc.providerIDs = append(acc.providerIDs, window.ProviderID)
		}

		current = slotEnd
	}

	return nil
}

// hasOverlap проверяет пересечение слота [start, end) с активными резервациями
// исполнителя. Строгие неравенства: граничащие интервалы не пересекаются.
//
// Примеры:
// - Слот 10:00-11:00, резервация 10:30-11:30 → ЕСТЬ пересечение (10:30-11:00)
// - Слот 10:00-11:00, резервация 09:00-10:00 → НЕТ пересечения (граничат)
// - Слот 10:00-11:00, резервация 11:00-12:00 → НЕТ пересечения (граничат)
func hasOverlap(start, end types.TimeString, reservations []*domain.Reservation) bool {
	for _, r := range reservations {
		if r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start) {
			return true
		}
	}
	return false
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
