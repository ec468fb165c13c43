package set_reservation_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/PWS-ReservationService/internal/api/handlers"
	"github.com/m04kA/PWS-ReservationService/internal/api/middleware"
	setReservationStatus "github.com/m04kA/PWS-ReservationService/internal/usecase/set_reservation_status"
)

const (
	msgInvalidReservationID = "некорректный ID резервации"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "резервация не найдена"
	msgActorMismatch        = "менять статус может только назначенный исполнитель"
	msgInvalidStatus        = "недопустимый целевой статус"
	msgInvalidTransition    = "переход в этот статус запрещен"
	msgNoLongerModifiable   = "резервация больше не может быть изменена"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	useCase SetReservationStatusUseCase
	logger  Logger
}

func NewHandler(useCase SetReservationStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationIDStr := vars["reservationId"]

	reservationID, err := strconv.ParseInt(reservationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SetStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := &setReservationStatus.Request{
		ReservationID: reservationID,
		ActorID:       userID,
		Status:        req.Status,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, setReservationStatus.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/status - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, setReservationStatus.ErrActorMismatch):
			h.logger.Warn("PATCH /reservations/{id}/status - Actor mismatch: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgActorMismatch)

		case errors.Is(err, setReservationStatus.ErrInvalidStatus):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid status %q: reservation_id=%d",
				req.Status, reservationID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, setReservationStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid transition to %q: reservation_id=%d",
				req.Status, reservationID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, setReservationStatus.ErrNoLongerModifiable):
			h.logger.Warn("PATCH /reservations/{id}/status - No longer modifiable: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgNoLongerModifiable)

		case errors.Is(err, setReservationStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /reservations/{id}/status - Failed to set status: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /reservations/{id}/status - Status updated: reservation_id=%d, status=%s, reassigned=%t",
		result.ID, result.Status, result.Reassigned)
	handlers.RespondJSON(w, http.StatusOK, response)
}
