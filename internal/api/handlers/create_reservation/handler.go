package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/PWS-ReservationService/internal/api/handlers"
	"github.com/m04kA/PWS-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/PWS-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateTime       = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgProviderNotFound      = "исполнитель не найден"
	msgProviderNotAssignable = "исполнитель не принимает заявки"
	msgPetNotFound           = "питомец не найден"
	msgPetNotOwned           = "питомец принадлежит другому пользователю"
	msgUserNotFound          = "пользователь не найден"
	msgInsufficientLeadTime  = "заявка подается не менее чем за три дня"
	msgProviderSlotTaken     = "у исполнителя уже есть резервация на это время"
	msgRequesterSlotTaken    = "у вас уже есть резервация на это время"
	msgInvalidInput          = "некорректные входные данные"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrProviderSlotTaken):
			h.logger.Warn("POST /reservations - Provider slot taken: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondError(w, http.StatusConflict, msgProviderSlotTaken)

		case errors.Is(err, createReservation.ErrRequesterSlotTaken):
			h.logger.Warn("POST /reservations - Requester slot taken: user_id=%d", userID)
			handlers.RespondError(w, http.StatusConflict, msgRequesterSlotTaken)

		case errors.Is(err, createReservation.ErrProviderNotFound):
			h.logger.Warn("POST /reservations - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createReservation.ErrProviderNotAssignable):
			h.logger.Warn("POST /reservations - Provider not assignable: provider_id=%d", req.ProviderID)
			handlers.RespondError(w, http.StatusConflict, msgProviderNotAssignable)

		case errors.Is(err, createReservation.ErrPetNotFound):
			h.logger.Warn("POST /reservations - Pet not found: pet_id=%d", req.PetID)
			handlers.RespondNotFound(w, msgPetNotFound)

		case errors.Is(err, createReservation.ErrPetNotOwned):
			h.logger.Warn("POST /reservations - Pet not owned: user_id=%d, pet_id=%d", userID, req.PetID)
			handlers.RespondForbidden(w, msgPetNotOwned)

		case errors.Is(err, createReservation.ErrUserNotFound):
			h.logger.Warn("POST /reservations - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createReservation.ErrInsufficientLeadTime):
			h.logger.Warn("POST /reservations - Insufficient lead time: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgInsufficientLeadTime)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, provider_id=%d",
		result.ID, userID, result.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
