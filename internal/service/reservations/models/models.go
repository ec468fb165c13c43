package models

import (
	"errors"
	"time"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// CancelReservationRequest запрос на отмену резервации заказчиком
type CancelReservationRequest struct {
	UserID int64 `json:"userId"`
}

// GetUserReservationsRequest запрос на получение истории резерваций заказчика
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// GetProviderReservationsRequest запрос на получение рабочего списка исполнителя
type GetProviderReservationsRequest struct {
	ProviderID int64      `json:"providerId"`
	UserID     int64      `json:"userId"`               // Действующее лицо (из auth-контекста)
	Date       *time.Time `json:"date,omitempty"`       // Фильтр по дате (опционально)
	Status     *string    `json:"status,omitempty"`     // Фильтр по статусу (опционально)
	ActiveOnly bool       `json:"activeOnly,omitempty"` // Только pending и accepted
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderReservationsRequest) ToDomainFilter() (domain.ProviderReservationsFilter, error) {
	filter := domain.ProviderReservationsFilter{
		ProviderID: r.ProviderID,
		Date:       r.Date,
		ActiveOnly: r.ActiveOnly,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными резервации
type ReservationResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	ProviderID int64  `json:"providerId"`
	PetID      int64  `json:"petId"`
	Date       string `json:"date"`      // "2026-09-15"
	StartTime  string `json:"startTime"` // "10:00"
	EndTime    string `json:"endTime"`   // "11:00"
	Status     string `json:"status"`
	UserArea   string `json:"userArea"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком резерваций
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// FromDomainReservation конвертирует domain резервацию в response
func FromDomainReservation(res *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         res.ID,
		UserID:     res.UserID,
		ProviderID: res.ProviderID,
		PetID:      res.PetID,
		Date:       res.Date.Format(domain.DateFormat),
		StartTime:  res.StartTime.String(),
		EndTime:    res.EndTime.String(),
		Status:     string(res.Status),
		UserArea:   res.UserArea,
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain резерваций в response
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	items := make([]ReservationResponse, len(reservations))
	for i, res := range reservations {
		items[i] = *FromDomainReservation(res)
	}
	return &ReservationListResponse{
		Reservations: items,
		Total:        len(items),
	}
}

// ToDomainReservationStatus конвертирует строку в domain статус
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	parsed := domain.ReservationStatus(status)
	switch parsed {
	case domain.StatusPending,
		domain.StatusAccepted,
		domain.StatusRejected,
		domain.StatusCancelled,
		domain.StatusCompleted:
		return parsed, nil
	default:
		return "", ErrInvalidStatus
	}
}
