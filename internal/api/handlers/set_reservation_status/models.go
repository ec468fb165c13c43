package set_reservation_status

import (
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	setReservationStatus "github.com/m04kA/PWS-ReservationService/internal/usecase/set_reservation_status"
)

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	ProviderID int64  `json:"providerId"`
	PetID      int64  `json:"petId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	UserArea   string `json:"userArea"`
	Reassigned bool   `json:"reassigned"`
	UpdatedAt  string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *setReservationStatus.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:         resp.ID,
		UserID:     resp.UserID,
		ProviderID: resp.ProviderID,
		PetID:      resp.PetID,
		Date:       resp.Date.Format(domain.DateFormat),
		StartTime:  resp.StartTime.String(),
		EndTime:    resp.EndTime.String(),
		Status:     resp.Status,
		UserArea:   resp.UserArea,
		Reassigned: resp.Reassigned,
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
