package get_free_slots

import (
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.Area) > domain.MaxCoverageAreaChars {
		return fmt.Errorf("%w: area name is too long", ErrInvalidInput)
	}

	return nil
}
