package update_provider_schedule

import (
	"time"

	updateProviderSchedule "github.com/m04kA/PWS-ReservationService/internal/usecase/update_provider_schedule"
	"github.com/m04kA/PWS-ReservationService/pkg/types"
)

// WindowRequest HTTP модель окна доступности
type WindowRequest struct {
	Weekday   int    `json:"weekday"`   // 1 (понедельник) — 7 (воскресенье)
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Windows    []WindowRequest `json:"windows"`
	ExtraAreas []string        `json:"extraAreas"`
}

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	ProviderID        int64           `json:"providerId"`
	Windows           []WindowRequest `json:"windows"`
	ExtraAreas        []string        `json:"extraAreas"`
	ScheduleUpdatedAt string          `json:"scheduleUpdatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateScheduleRequest) ToUseCaseRequest(providerID, actorID int64) (*updateProviderSchedule.Request, error) {
	windows := make([]updateProviderSchedule.WindowInput, len(r.Windows))
	for i, w := range r.Windows {
		startTime, err := types.NewTimeStringFromString(w.StartTime)
		if err != nil {
			return nil, err
		}

		endTime, err := types.NewTimeStringFromString(w.EndTime)
		if err != nil {
			return nil, err
		}

		windows[i] = updateProviderSchedule.WindowInput{
			Weekday:   w.Weekday,
			StartTime: startTime,
			EndTime:   endTime,
		}
	}

	return &updateProviderSchedule.Request{
		ProviderID: providerID,
		ActorID:    actorID,
		Windows:    windows,
		ExtraAreas: r.ExtraAreas,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateProviderSchedule.Response) *ScheduleResponse {
	windows := make([]WindowRequest, len(resp.Windows))
	for i, w := range resp.Windows {
		windows[i] = WindowRequest{
			Weekday:   w.Weekday,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		}
	}

	return &ScheduleResponse{
		ProviderID:        resp.ProviderID,
		Windows:           windows,
		ExtraAreas:        resp.ExtraAreas,
		ScheduleUpdatedAt: resp.ScheduleUpdatedAt.Format(time.RFC3339),
	}
}
