package create_reservation

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// Request модель запроса на создание резервации
type Request struct {
	UserID     int64            // ID заказчика (из auth-контекста)
	ProviderID int64            // ID исполнителя
	PetID      int64            // ID питомца
	Date       time.Time        // Дата прогулки (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	EndTime    types.TimeString // Время окончания
}

// Response модель ответа с созданной резервацией
type Response struct {
	ID         int64            // ID созданной резервации
	UserID     int64            // ID заказчика
	ProviderID int64            // ID исполнителя
	PetID      int64            // ID питомца
	Date       time.Time        // Дата прогулки
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	Status     string           // Статус резервации
	UserArea   string           // Домашняя зона заказчика

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
