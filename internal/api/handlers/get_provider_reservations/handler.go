package get_provider_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/PWS-ReservationService/internal/api/handlers"
	"github.com/m04kA/PWS-ReservationService/internal/api/middleware"
	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/service/reservations"
	"github.com/m04kA/PWS-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidProviderID = "некорректный ID исполнителя"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgProviderNotFound  = "исполнитель не найден"
	msgForbidden         = "доступ запрещен"
	msgInvalidInput      = "некорректные входные данные"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/reservations?date=YYYY-MM-DD&status=pending&activeOnly=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerIDStr := vars["providerId"]

	providerID, err := strconv.ParseInt(providerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/reservations - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{providerId}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var datePtr *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /providers/{providerId}/reservations - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		datePtr = &date
	}

	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetProviderReservationsRequest{
		ProviderID: providerID,
		UserID:     userID,
		Date:       datePtr,
		Status:     statusPtr,
		ActiveOnly: r.URL.Query().Get("activeOnly") == "true",
	}

	result, err := h.service.GetProviderReservations(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{providerId}/reservations - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /providers/{providerId}/reservations - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/reservations - Invalid input: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /providers/{providerId}/reservations - Failed to get reservations: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/reservations - Retrieved %d reservations: provider_id=%d",
		result.Total, providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
