package domain

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusAccepted  ReservationStatus = "accepted"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Reservation represents a time-boxed walking reservation in the system
type Reservation struct {
	ID         int64
	UserID     int64 // ID заказчика (владельца питомца)
	ProviderID int64 // ID исполнителя (выгульщика)
	PetID      int64
	Date       time.Time // Дата резервации (без времени)
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     ReservationStatus

	// Домашняя зона заказчика на момент создания.
	// Денормализуется, чтобы переназначение и live-события
	// не ходили за зоной во внешний сервис.
	UserArea string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation is in an active (non-terminal) state
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusAccepted
}

// IsTerminal returns true if no further transition is permitted
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCancelled || r.Status == StatusCompleted
}

// CanBeCancelled returns true if the reservation can be cancelled by the requester
func (r *Reservation) CanBeCancelled() bool {
	return r.IsActive()
}

// CanTransitionTo returns true if the explicit transition to newStatus is legal
// for the current state
func (r *Reservation) CanTransitionTo(newStatus ReservationStatus) bool {
	switch r.Status {
	case StatusPending:
		return newStatus == StatusAccepted || newStatus == StatusRejected || newStatus == StatusCancelled
	case StatusAccepted:
		return newStatus == StatusCancelled
	default:
		// Терминальные статусы меняются только административным override
		return false
	}
}

// Overlaps reports whether the reservation interval overlaps [start, end)
// under the half-open rule: intervals [a,b) and [c,d) overlap iff a<d && c<b.
// Touching boundaries is not an overlap.
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}

// ExpiredAt returns true if date+end_time is in the past relative to now
func (r *Reservation) ExpiredAt(now time.Time) bool {
	endMinutes, err := r.EndTime.Minutes()
	if err != nil {
		return false
	}

	end := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(endMinutes) * time.Minute)

	return end.Before(now)
}

// SweptStatus returns the status the passive time-based sweep advances
// an expired reservation to, and whether any transition applies:
// accepted → completed, pending → cancelled. Idempotent for terminal statuses.
func (r *Reservation) SweptStatus() (ReservationStatus, bool) {
	switch r.Status {
	case StatusAccepted:
		return StatusCompleted, true
	case StatusPending:
		return StatusCancelled, true
	default:
		return r.Status, false
	}
}

// UserReservationsFilter фильтр для получения резерваций пользователя
type UserReservationsFilter struct {
	UserID int64              // Обязательный параметр
	Status *ReservationStatus // Фильтр по статусу (опционально)
}

// ProviderReservationsFilter фильтр для получения резерваций исполнителя
type ProviderReservationsFilter struct {
	ProviderID int64              // Обязательный параметр
	Date       *time.Time         // Фильтр по дате (опционально)
	Status     *ReservationStatus // Фильтр по статусу (опционально)
	ActiveOnly bool               // Только активные (pending/accepted)
}
