package update_provider_schedule

import (
	"context"

	updateProviderSchedule "github.com/m04kA/PWS-ReservationService/internal/usecase/update_provider_schedule"
)

type UpdateProviderScheduleUseCase interface {
	Execute(ctx context.Context, req *updateProviderSchedule.Request) (*updateProviderSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
