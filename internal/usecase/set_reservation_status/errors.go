package set_reservation_status

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("set_reservation_status: reservation not found")

	// ErrActorMismatch возвращается, когда действие выполняет не назначенный
	// исполнитель и не администратор
	ErrActorMismatch = errors.New("set_reservation_status: actor is not the assigned provider")

	// ErrInvalidStatus возвращается при недопустимом целевом статусе
	ErrInvalidStatus = errors.New("set_reservation_status: invalid target status")

	// ErrInvalidTransition возвращается, когда переход запрещен машиной состояний
	ErrInvalidTransition = errors.New("set_reservation_status: transition is not allowed")

	// ErrNoLongerModifiable возвращается, когда пассивный переход по времени
	// терминализировал резервацию раньше явного запроса
	ErrNoLongerModifiable = errors.New("set_reservation_status: reservation is no longer modifiable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("set_reservation_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("set_reservation_status: internal error")
)
