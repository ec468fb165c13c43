package set_reservation_status

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// Request модель запроса на смену статуса резервации
type Request struct {
	ReservationID int64  // ID резервации
	ActorID       int64  // ID пользователя, выполняющего действие (из auth-контекста)
	Status        string // Целевой статус
}

// Response модель ответа с результирующим состоянием резервации
type Response struct {
	ID         int64            // ID резервации
	UserID     int64            // ID заказчика
	ProviderID int64            // ID исполнителя (нового — при переназначении)
	PetID      int64            // ID питомца
	Date       time.Time        // Дата прогулки
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	Status     string           // Итоговый статус
	UserArea   string           // Домашняя зона заказчика

	// Признак, что отклоненная резервация переназначена другому исполнителю
	Reassigned bool

	UpdatedAt time.Time // Время обновления
}
