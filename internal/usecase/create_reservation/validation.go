package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.PetID <= 0 {
		return fmt.Errorf("%w: petID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	// Интервал обязан быть непустым: end строго позже start
	if !req.EndTime.IsAfter(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	return nil
}

// validateLeadTime проверяет минимальный срок подачи заявки:
// дата прогулки не раньше, чем через minLeadDays полных дней
func validateLeadTime(date time.Time, now time.Time, minLeadDays int) error {
	minDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, minLeadDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.Before(minDate) {
		return fmt.Errorf("%w: must be requested at least %d days in advance", ErrInsufficientLeadTime, minLeadDays)
	}

	return nil
}

// hasOverlap проверяет пересечение интервала [start, end) с активными
// резервациями. Строгие неравенства: граничащие интервалы не пересекаются.
func hasOverlap(start, end types.TimeString, reservations []*domain.Reservation) bool {
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}
