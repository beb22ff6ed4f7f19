package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// Service описывает usecase-слой для работы с пользователем:
// регистрацию и получение учётной записи.
type Service interface {
	// Register регистрирует нового пользователя на основе минимального контракта:
	// email, username, хэш пароля. Валидация и хеширование выполняются выше
	// (на уровне хендлера). Новый пользователь всегда создаётся гостем.
	// Возвращает созданного пользователя или ошибку (включая ErrEmailExists/ErrUsernameExists).
	Register(ctx context.Context, email, username, passwordHash string) (*domain.User, error)

	// GetByID возвращает пользователя по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername возвращает пользователя по username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type service struct {
	users repo.UserRepository
}

// NewService создаёт новый сервис пользователей.
func NewService(users repo.UserRepository) Service {
	return &service{users: users}
}

// Register регистрирует нового пользователя.
func (s *service) Register(ctx context.Context, email, username, passwordHash string) (*domain.User, error) {
	if email == "" || username == "" || passwordHash == "" {
		return nil, fmt.Errorf("email, username и passwordHash обязательны")
	}

	user := domain.NewUser(email, username, passwordHash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID возвращает пользователя по ID.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername возвращает пользователя по username.
func (s *service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}
