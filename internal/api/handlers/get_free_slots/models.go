package get_free_slots

import (
	"github.com/m04kA/PWS-ReservationService/internal/domain"
	getFreeSlots "github.com/m04kA/PWS-ReservationService/internal/usecase/get_free_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	ProviderIDs     []int64 `json:"providerIds"`
	Reserved        bool    `json:"reserved"`
}

// DaySlotsResponse HTTP модель слотов одной даты
type DaySlotsResponse struct {
	Date    string         `json:"date"`
	Weekday int            `json:"weekday"`
	Slots   []SlotResponse `json:"slots"`
}

// FreeSlotsResponse HTTP response model
type FreeSlotsResponse struct {
	Area string             `json:"area"`
	Days []DaySlotsResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeSlots.Response) *FreeSlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				StartTime:       slot.StartTime.String(),
				DurationMinutes: slot.DurationMinutes,
				ProviderIDs:     slot.ProviderIDs,
				Reserved:        slot.Reserved,
			}
		}
		days[i] = DaySlotsResponse{
			Date:    day.Date.Format(domain.DateFormat),
			Weekday: day.Weekday,
			Slots:   slots,
		}
	}

	return &FreeSlotsResponse{
		Area: resp.Area,
		Days: days,
	}
}
