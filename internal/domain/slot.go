package domain

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// FreeSlot производный свободный слот: не хранится в БД, пересчитывается
// при каждом чтении. Группируется по (дата, время начала) для всех
// исполнителей зоны.
type FreeSlot struct {
	Date            time.Time
	Weekday         int // ISO день недели
	StartTime       types.TimeString
	DurationMinutes int

	// Исполнители, свободные в этом слоте, в порядке возрастания ID.
	// Пустой список при Reserved = true.
	ProviderIDs []int64

	// Слот уже занят хотя бы у одного исполнителя на эту дату
	Reserved bool
}

// IsAvailable проверяет, что слот еще можно запросить
func (s *FreeSlot) IsAvailable() bool {
	return !s.Reserved && len(s.ProviderIDs) > 0
}
