package update_provider_schedule

import "errors"

var (
	// ErrProviderNotFound возвращается, когда исполнитель не найден
	ErrProviderNotFound = errors.New("update_provider_schedule: provider not found")

	// ErrAccessDenied возвращается, когда расписание меняет не его владелец
	// и не администратор
	ErrAccessDenied = errors.New("update_provider_schedule: access denied")

	// ErrEditCooldown возвращается, когда с прошлого изменения прошло меньше
	// периода запрета
	ErrEditCooldown = errors.New("update_provider_schedule: schedule was edited recently")

	// ErrActiveReservations возвращается, когда у исполнителя есть
	// незавершенные резервации
	ErrActiveReservations = errors.New("update_provider_schedule: provider has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_provider_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_provider_schedule: internal error")
)
