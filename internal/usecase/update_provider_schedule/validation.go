package update_provider_schedule

import (
	"fmt"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if err := validateWindows(req.Windows); err != nil {
		return err
	}

	return validateAreas(req.ExtraAreas)
}

// validateWindows проверяет окна доступности: корректность дня недели
// и времени, непустой интервал, лимит окон на день и отсутствие
// пересечений внутри одного дня
func validateWindows(windows []WindowInput) error {
	perDay := make(map[int]int)

	for i, w := range windows {
		if w.Weekday < domain.MinWeekday || w.Weekday > domain.MaxWeekday {
			return fmt.Errorf("%w: window %d: weekday must be in [%d, %d]",
				ErrInvalidInput, i, domain.MinWeekday, domain.MaxWeekday)
		}

		if err := w.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: window %d: invalid startTime: %v", ErrInvalidInput, i, err)
		}

		if err := w.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: window %d: invalid endTime: %v", ErrInvalidInput, i, err)
		}

		if !w.EndTime.IsAfter(w.StartTime) {
			return fmt.Errorf("%w: window %d: endTime must be after startTime", ErrInvalidInput, i)
		}

		perDay[w.Weekday]++
		if perDay[w.Weekday] > domain.MaxWindowsPerDay {
			return fmt.Errorf("%w: more than %d windows on weekday %d",
				ErrInvalidInput, domain.MaxWindowsPerDay, w.Weekday)
		}

		// Пересечение с предыдущими окнами того же дня.
		// Строгие неравенства: граничащие окна допустимы.
		for j := 0; j < i; j++ {
			other := windows[j]
			if other.Weekday != w.Weekday {
				continue
			}
			if w.StartTime.IsBefore(other.EndTime) && w.EndTime.IsAfter(other.StartTime) {
				return fmt.Errorf("%w: windows %d and %d overlap on weekday %d",
					ErrInvalidInput, j, i, w.Weekday)
			}
		}
	}

	return nil
}

// validateAreas проверяет набор дополнительных зон обслуживания
func validateAreas(areas []string) error {
	if len(areas) > domain.MaxExtraAreas {
		return fmt.Errorf("%w: more than %d extra areas", ErrInvalidInput, domain.MaxExtraAreas)
	}

	seen := make(map[string]struct{}, len(areas))
	for i, area := range areas {
		if area == "" {
			return fmt.Errorf("%w: area %d is empty", ErrInvalidInput, i)
		}
		if len(area) > domain.MaxCoverageAreaChars {
			return fmt.Errorf("%w: area %d is too long", ErrInvalidInput, i)
		}
		if _, ok := seen[area]; ok {
			return fmt.Errorf("%w: duplicate area %q", ErrInvalidInput, area)
		}
		seen[area] = struct{}{}
	}

	return nil
}
