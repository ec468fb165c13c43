package identity

// Роли пользователей identity-сервиса
const (
	RoleRequester     = "requester"
	RoleProvider      = "provider"
	RoleAdministrator = "administrator"
)

// User модель пользователя из identity-сервиса
type User struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HomeArea string `json:"home_area"`
}

// IsAdministrator проверяет, является ли пользователь администратором
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

// ErrorResponse модель ошибки от identity-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
