package get_free_slots

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// Request модель запроса свободных слотов
type Request struct {
	UserID int64     // ID заказчика
	Area   string    // Зона обслуживания (пустая — домашняя зона заказчика)
	Date   time.Time // Первая дата горизонта (без времени)
}

// Response модель ответа со свободными слотами, сгруппированными по датам
type Response struct {
	Area string    // Зона, по которой считались слоты
	Days []DaySlots // Даты горизонта по возрастанию
}

// DaySlots слоты одной календарной даты
type DaySlots struct {
	Date    time.Time // Дата
	Weekday int       // ISO день недели: 1 (понедельник) — 7 (воскресенье)
	Slots   []Slot    // Слоты по возрастанию времени начала
}

// Slot модель слота сетки
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах

	// Исполнители, свободные в этом слоте, по возрастанию ID.
	// Пустой список при Reserved = true.
	ProviderIDs []int64

	// Слот уже занят хотя бы у одного исполнителя зоны
	Reserved bool
}
