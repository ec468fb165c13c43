package domain

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// Provider represents a service provider (walker) in the system
type Provider struct {
	ID         int64
	UserID     int64  // ID пользователя в identity-сервисе
	HomeArea   string // Домашняя зона обслуживания
	ExtraAreas []string
	IsApproved bool
	IsPaused   bool // Пауза: новые назначения не принимаются

	// Время последнего изменения расписания или зон обслуживания.
	// Повторное изменение разрешено не раньше, чем через cooldown.
	ScheduleUpdatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CoversArea returns true if the provider serves the given coverage area
func (p *Provider) CoversArea(area string) bool {
	if p.HomeArea == area {
		return true
	}
	for _, a := range p.ExtraAreas {
		if a == area {
			return true
		}
	}
	return false
}

// IsAssignable returns true if the provider can receive new assignments
func (p *Provider) IsAssignable() bool {
	return p.IsApproved && !p.IsPaused
}

// CanEditSchedule returns true if the edit cooldown has elapsed
func (p *Provider) CanEditSchedule(now time.Time, cooldown time.Duration) bool {
	if p.ScheduleUpdatedAt == nil {
		return true
	}
	return now.Sub(*p.ScheduleUpdatedAt) >= cooldown
}

// AvailabilityWindow represents a recurring weekly availability window of a provider
type AvailabilityWindow struct {
	ID         int64
	ProviderID int64
	Weekday    int // ISO день недели: 1 (понедельник) — 7 (воскресенье)
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// Contains returns true if the window fully contains the [start, end) interval
func (w *AvailabilityWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.StartTime) && !w.EndTime.IsBefore(end)
}

// Overlaps reports whether the window overlaps another window of the same day
// under the half-open rule
func (w *AvailabilityWindow) Overlaps(other *AvailabilityWindow) bool {
	if w.Weekday != other.Weekday {
		return false
	}
	return w.StartTime.IsBefore(other.EndTime) && w.EndTime.IsAfter(other.StartTime)
}

// ISOWeekday returns the ISO 8601 day of week for a date: 1 (Monday) — 7 (Sunday)
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
