package petservice

// Pet модель питомца из pet-сервиса
type Pet struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	Breed   string `json:"breed"`
}

// ErrorResponse модель ошибки от pet-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
