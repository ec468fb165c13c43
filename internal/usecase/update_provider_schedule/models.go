package update_provider_schedule

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// WindowInput окно доступности из запроса
type WindowInput struct {
	Weekday   int              // ISO день недели: 1 (понедельник) — 7 (воскресенье)
	StartTime types.TimeString // Время начала окна
	EndTime   types.TimeString // Время окончания окна
}

// Request модель запроса на замену расписания и зон обслуживания.
// Окна и дополнительные зоны заменяются целиком (delete-all-then-insert),
// частичное обновление не поддерживается.
type Request struct {
	ProviderID int64         // ID исполнителя
	ActorID    int64         // ID пользователя, выполняющего действие (из auth-контекста)
	Windows    []WindowInput // Новый полный набор окон доступности
	ExtraAreas []string      // Новый полный набор дополнительных зон
}

// Response модель ответа с примененным расписанием
type Response struct {
	ProviderID        int64         // ID исполнителя
	Windows           []WindowInput // Примененные окна
	ExtraAreas        []string      // Примененные дополнительные зоны
	ScheduleUpdatedAt time.Time     // Отметка изменения расписания
}
