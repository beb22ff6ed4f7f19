package permission

// RoleResponse описывает роль пользователя после переключения прав.
type RoleResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsGuest  bool   `json:"is_guest"`
}

// UserIDResponse описывает найденный идентификатор пользователя.
type UserIDResponse struct {
	UserID string `json:"user_id"`
}
