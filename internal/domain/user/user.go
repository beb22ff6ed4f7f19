package user

import (
	"time"

	"github.com/google/uuid"
)

// Role описывает уровень привилегий пользователя.
//
// Исторически привилегии хранились как пара флагов is_admin/is_guest; в домене
// они сведены к двухпозиционному enum, а флаги переключаются строго парой.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// User представляет доменную модель пользователя.
//
// Важно: эта модель описывает бизнес‑сущность и не зависит от деталей транспорта (HTTP, gRPC)
// и конкретного представления в БД.
type User struct {
	ID           uuid.UUID // Уникальный идентификатор пользователя
	Email        string    // Email (уникальный)
	Username     string    // Никнейм (уникальный логин)
	PasswordHash string    // Хэш пароля

	Role Role // Текущая роль (guest/admin)

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время последнего обновления
}

// NewUser — фабрика для создания нового пользователя на доменном уровне.
// Предполагается, что валидация входных данных и хеширование пароля
// выполняются на уровне usecase‑слоя до вызова этой функции.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleGuest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin возвращает true, если пользователь является администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Promote выдаёт пользователю права администратора (is_admin=true, is_guest=false).
func (u *User) Promote(at time.Time) {
	u.Role = RoleAdmin
	u.UpdatedAt = at
}

// Demote отзывает права администратора (is_admin=false, is_guest=true).
func (u *User) Demote(at time.Time) {
	u.Role = RoleGuest
	u.UpdatedAt = at
}

// Caller описывает идентичность вызывающего, восстановленную из access-токена.
//
// Роль фиксируется на момент выпуска токена: изменение прав не инвалидирует
// уже выданные токены до их естественного истечения.
type Caller struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

// IsAdmin возвращает true, если вызывающий был администратором на момент выпуска токена.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanAccess проверяет базовое правило авторизации: доступ к сущности имеет
// её владелец либо администратор.
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.IsAdmin() || c.ID == ownerID
}
