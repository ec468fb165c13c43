package events

import "github.com/m04kA/PWS-ReservationService/pkg/types"

// EventType тип события брони для live-канала и почтовых уведомлений
type EventType string

const (
	EventReservationCreated    EventType = "reservation.created"
	EventReservationAccepted   EventType = "reservation.accepted"
	EventReservationRejected   EventType = "reservation.rejected"
	EventReservationReassigned EventType = "reservation.reassigned"
	EventReservationCancelled  EventType = "reservation.cancelled"
	EventReservationCompleted  EventType = "reservation.completed"
)

// ReservationEvent событие изменения брони.
// Area — зона обслуживания, по ней фильтруются live-подписчики.
type ReservationEvent struct {
	Type          EventType        `json:"type"`
	ReservationID int64            `json:"reservation_id"`
	UserID        int64            `json:"user_id"`
	ProviderID    int64            `json:"provider_id"`
	Area          string           `json:"area"`
	Date          string           `json:"date"`
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	Status        string           `json:"status"`
}
