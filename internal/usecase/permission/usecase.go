package permission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// Ошибки бизнес-логики управления правами.
var (
	// ErrForbidden — у вызывающего недостаточно прав на операцию.
	ErrForbidden = errors.New("admin permission required")

	// ErrProtectedUser — целевой пользователь входит в список защищённых
	// операторов, его роль нельзя менять через API.
	ErrProtectedUser = errors.New("user has protected rights and cannot be modified")

	// ErrTargetIsAdmin — администратора нельзя удалить.
	ErrTargetIsAdmin = errors.New("cannot delete admin user")
)

// Service описывает usecase-слой управления правами: выдачу/отзыв прав
// администратора и удаление учётных записей.
//
// Роль вызывающего берётся из его токена (фиксация на момент выпуска):
// изменение прав не инвалидирует уже выданные токены до их истечения.
type Service interface {
	// ToggleAdmin переключает роль целевого пользователя: guest → admin или
	// admin → guest (оба флага меняются парой). Доступно только
	// администратору из списка защищённых операторов; самих защищённых
	// операторов переключать нельзя.
	ToggleAdmin(ctx context.Context, caller domain.Caller, targetID uuid.UUID) (*domain.User, error)

	// DeleteUser окончательно удаляет пользователя вместе со всеми его
	// тренировками. Доступно администратору; другого администратора
	// удалить нельзя.
	DeleteUser(ctx context.Context, caller domain.Caller, targetID uuid.UUID) error

	// GetUserIDByUsername возвращает идентификатор пользователя по username.
	// Административная операция.
	GetUserIDByUsername(ctx context.Context, caller domain.Caller, username string) (uuid.UUID, error)
}

type service struct {
	users repo.UserRepository
	auth  *config.AuthConfig
}

// NewService создаёт сервис управления правами.
// Список защищённых операторов передаётся конфигурацией при конструировании.
func NewService(users repo.UserRepository, auth *config.AuthConfig) Service {
	return &service{users: users, auth: auth}
}

// ToggleAdmin переключает привилегии целевого пользователя.
func (s *service) ToggleAdmin(ctx context.Context, caller domain.Caller, targetID uuid.UUID) (*domain.User, error) {
	if !caller.IsAdmin() || !s.auth.IsProtected(caller.Username) {
		return nil, ErrForbidden
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if s.auth.IsProtected(target.Username) {
		return nil, ErrProtectedUser
	}

	now := time.Now().UTC()
	if target.IsAdmin() {
		target.Demote(now)
	} else {
		target.Promote(now)
	}

	if err := s.users.UpdateRole(ctx, target.ID, target.Role); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteUser удаляет пользователя и каскадно все его данные.
func (s *service) DeleteUser(ctx context.Context, caller domain.Caller, targetID uuid.UUID) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return ErrTargetIsAdmin
	}

	return s.users.Delete(ctx, target.ID)
}

// GetUserIDByUsername возвращает id пользователя по username.
func (s *service) GetUserIDByUsername(ctx context.Context, caller domain.Caller, username string) (uuid.UUID, error) {
	if !caller.IsAdmin() {
		return uuid.Nil, ErrForbidden
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
