package create_reservation

import "errors"

var (
	// ErrProviderNotFound возвращается, когда исполнитель не найден
	ErrProviderNotFound = errors.New("create_reservation: provider not found")

	// ErrProviderNotAssignable возвращается, когда исполнитель не одобрен или на паузе
	ErrProviderNotAssignable = errors.New("create_reservation: provider is not accepting assignments")

	// ErrPetNotFound возвращается, когда питомец не найден
	ErrPetNotFound = errors.New("create_reservation: pet not found")

	// ErrPetNotOwned возвращается, когда питомец принадлежит другому пользователю
	ErrPetNotOwned = errors.New("create_reservation: pet does not belong to the requester")

	// ErrUserNotFound возвращается, когда заказчик не найден в identity-сервисе
	ErrUserNotFound = errors.New("create_reservation: user not found")

	// ErrInsufficientLeadTime возвращается, когда дата ближе минимального срока подачи
	ErrInsufficientLeadTime = errors.New("create_reservation: date is too soon")

	// ErrProviderSlotTaken возвращается, когда интервал пересекается с активной
	// резервацией исполнителя
	ErrProviderSlotTaken = errors.New("create_reservation: provider already has a reservation in this interval")

	// ErrRequesterSlotTaken возвращается, когда интервал пересекается с активной
	// резервацией самого заказчика
	ErrRequesterSlotTaken = errors.New("create_reservation: requester already has a reservation in this interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
