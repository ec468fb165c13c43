package domain

// Default scheduling values
const (
	DefaultMinLeadDays          = 3  // Минимум полных дней между запросом и датой услуги
	DefaultSlotStepMinutes      = 60 // Шаг сетки слотов
	DefaultFreeSlotsHorizonDays = 7  // Горизонт выдачи свободных слотов
	DefaultEditCooldownDays     = 30 // Пауза между изменениями расписания исполнителя
)

// Business validation constants
const (
	MinWeekday = 1 // ISO: понедельник
	MaxWeekday = 7 // ISO: воскресенье

	MaxWindowsPerDay     = 8
	MaxExtraAreas        = 10
	MaxCoverageAreaChars = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список активных (нетерминальных) статусов.
// Используется при проверке пересечений и при блокировке изменения расписания.
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusAccepted,
}

// TerminalStatuses список терминальных статусов
var TerminalStatuses = []ReservationStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}
