package mailservice

// Шаблоны писем mail-сервиса
const (
	TemplateReservationRequested  = "reservation_requested"
	TemplateReservationAccepted   = "reservation_accepted"
	TemplateReservationReassigned = "reservation_reassigned"
	TemplateReservationRejected   = "reservation_rejected"
	TemplateReservationCancelled  = "reservation_cancelled"
)

// SendRequest запрос на отправку письма по шаблону.
// Fields подставляются в шаблон в порядке следования.
type SendRequest struct {
	Template    string   `json:"template"`
	RecipientID int64    `json:"recipient_id"`
	Fields      []string `json:"fields"`
}

// ErrorResponse модель ошибки от mail-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
