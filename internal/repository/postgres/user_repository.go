package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// pgUser представляет собой ORM-модель для таблицы users.
// Она максимально близко отражает схему БД и маппится в доменную модель User.
// Привилегии хранятся парой флагов is_admin/is_guest (историческая схема),
// в домен они поднимаются как двухпозиционный enum Role.
type pgUser struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;type:varchar(255);not null"`
	Username     string    `gorm:"column:username;type:varchar(50);not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null"`
	IsGuest      bool      `gorm:"column:is_guest;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgUser) TableName() string {
	return "users"
}

// UserRepository реализует repo.UserRepository с использованием GORM и Postgres.
type UserRepository struct {
	db *gorm.DB
}

// Убедимся на этапе компиляции, что структура реализует интерфейс.
var _ repo.UserRepository = (*UserRepository)(nil)

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникального ограничения PostgreSQL.
// Ориентируется на код ошибки 23505 (unique_violation) и, при наличии, имя индекса/constraint.
func isUniqueViolation(err error, constraintNames ...string) bool {
	if err == nil {
		return false
	}

	// Предпочитаем структурированную ошибку драйвера pgx
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" { // unique_violation
			return false
		}
		// Если конкретные имена не заданы — достаточно кода ошибки
		if len(constraintNames) == 0 {
			return true
		}
		for _, name := range constraintNames {
			if name != "" && strings.EqualFold(pgErr.ConstraintName, name) {
				return true
			}
		}
		return false
	}

	// Fallback для нестандартных ошибок: ищем 23505 и имя индекса/constraint в сообщении
	errStr := err.Error()
	if !strings.Contains(errStr, "23505") {
		return false
	}
	if len(constraintNames) == 0 {
		return true
	}
	lower := strings.ToLower(errStr)
	for _, name := range constraintNames {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// toDomain маппит ORM-модель в доменную.
func (m *pgUser) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	role := domain.RoleGuest
	if m.IsAdmin {
		role = domain.RoleAdmin
	}

	return &domain.User{
		ID:           id,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// fromDomain маппит доменную модель в ORM-модель.
func fromDomain(u *domain.User) *pgUser {
	isAdmin := u.Role == domain.RoleAdmin
	return &pgUser{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsAdmin:      isAdmin,
		IsGuest:      !isAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Create создает нового пользователя в БД.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	model := fromDomain(user)
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil {
		// Проверка на нарушение уникальности email
		if isUniqueViolation(err, "uq_users_email") {
			return repo.ErrEmailExists
		}
		// Проверка на нарушение уникальности username
		if isUniqueViolation(err, "uq_users_username") {
			return repo.ErrUsernameExists
		}
		return err
	}
	return nil
}

// oneByCondition возвращает одну запись по условию.
func (r *UserRepository) oneByCondition(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var model pgUser
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Take(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.oneByCondition(ctx, "id = ?", id.String())
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.oneByCondition(ctx, "email = ?", email)
}

// GetByUsername возвращает пользователя по username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.oneByCondition(ctx, "username = ?", username)
}

// UpdateRole переключает привилегии пользователя: оба флага меняются парой
// в одном UPDATE, чтобы роль не могла оказаться в противоречивом состоянии.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	isAdmin := role == domain.RoleAdmin

	result := r.db.WithContext(ctx).
		Model(&pgUser{}).
		Where("id = ?", id.String()).
		Updates(map[string]interface{}{
			"is_admin":   isAdmin,
			"is_guest":   !isAdmin,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет пользователя окончательно.
// Тренировки и всё их поддерево удаляются каскадно (ON DELETE CASCADE).
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&pgUser{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
