package set_reservation_status

import (
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidInput)
	}

	return nil
}

// parseTargetStatus разбирает целевой статус явного перехода.
// Исполнителю доступны pending, accepted, rejected и cancelled;
// completed выставляется только пассивным переходом по времени
// либо административным override.
func parseTargetStatus(status string, isAdmin bool) (domain.ReservationStatus, error) {
	parsed := domain.ReservationStatus(status)

	switch parsed {
	case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected, domain.StatusCancelled:
		return parsed, nil
	case domain.StatusCompleted:
		if isAdmin {
			return parsed, nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// hasOverlap проверяет пересечение интервала [start, end) с активными
// резервациями кандидата под правилом полуоткрытых интервалов
func hasOverlap(res *domain.Reservation, candidateReservations []*domain.Reservation) bool {
	for _, r := range candidateReservations {
		if !r.IsActive() {
			continue
		}
		if r.Overlaps(res.StartTime, res.EndTime) {
			return true
		}
	}
	return false
}
