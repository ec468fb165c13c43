package update_provider_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PWS-ReservationService/internal/api/handlers"
	"github.com/m04kA/PWS-ReservationService/internal/api/middleware"
	updateProviderSchedule "github.com/m04kA/PWS-ReservationService/internal/usecase/update_provider_schedule"
)

const (
	msgInvalidProviderID  = "некорректный ID исполнителя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgProviderNotFound   = "исполнитель не найден"
	msgForbidden          = "доступ запрещен"
	msgEditCooldown       = "расписание менялось недавно, повторное изменение пока недоступно"
	msgActiveReservations = "нельзя менять расписание при незавершенных резервациях"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase UpdateProviderScheduleUseCase
	logger  Logger
}

func NewHandler(useCase UpdateProviderScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerIDStr := vars["providerId"]

	providerID, err := strconv.ParseInt(providerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/schedule - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{providerId}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{providerId}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(providerID, userID)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/schedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateProviderSchedule.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/{providerId}/schedule - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, updateProviderSchedule.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{providerId}/schedule - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateProviderSchedule.ErrEditCooldown):
			h.logger.Warn("PUT /providers/{providerId}/schedule - Edit cooldown: provider_id=%d", providerID)
			handlers.RespondError(w, http.StatusConflict, msgEditCooldown)

		case errors.Is(err, updateProviderSchedule.ErrActiveReservations):
			h.logger.Warn("PUT /providers/{providerId}/schedule - Active reservations: provider_id=%d", providerID)
			handlers.RespondError(w, http.StatusConflict, msgActiveReservations)

		case errors.Is(err, updateProviderSchedule.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{providerId}/schedule - Invalid input: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /providers/{providerId}/schedule - Failed to update schedule: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PUT /providers/{providerId}/schedule - Schedule replaced: provider_id=%d, windows=%d, areas=%d",
		providerID, len(response.Windows), len(response.ExtraAreas))
	handlers.RespondJSON(w, http.StatusOK, response)
}
