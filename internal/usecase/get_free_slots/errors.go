package get_free_slots

import "errors"

var (
	// ErrUserNotFound возвращается, когда заказчик не найден в identity-сервисе
	ErrUserNotFound = errors.New("get_free_slots: user not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_free_slots: internal error")
)
