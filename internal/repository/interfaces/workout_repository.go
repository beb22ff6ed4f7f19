package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/workout"
)

// ErrTrainingDateTaken возвращается, когда у пользователя уже есть тренировка на эту дату.
var ErrTrainingDateTaken = errors.New("training for this date already exists")

// ErrGroupNameTaken возвращается, когда в тренировке уже есть группа мышц с таким названием.
var ErrGroupNameTaken = errors.New("muscle group with this name already exists in training")

// WorkoutRepository определяет контракт хранилища для дерева
// Training → MuscleGroup → Exercise → Set.
//
// Мутирующие операции usecase-слоя выполняются внутри WithinTx: все чтения,
// проверки инвариантов и записи одной операции попадают в одну транзакцию.
// Методы *ForUpdate берут блокировку строки (SELECT ... FOR UPDATE), чтобы
// подсчёт детей для guard-проверок был согласован с последующей записью.
type WorkoutRepository interface {
	// WithinTx выполняет fn в рамках одной транзакции хранилища.
	// Переданный fn получает репозиторий, привязанный к транзакции; ошибка
	// из fn откатывает транзакцию целиком.
	WithinTx(ctx context.Context, fn func(WorkoutRepository) error) error

	// --- Training ---

	// CreateTraining вставляет тренировку вместе со всем поддеревом
	// (группы, упражнения, подходы) и проставляет сгенерированные ID.
	// Возвращает ErrTrainingDateTaken при нарушении уникальности (user_id, date).
	CreateTraining(ctx context.Context, t *domain.Training) error

	// GetTraining возвращает тренировку с жадно загруженным поддеревом
	// (группы → упражнения → подходы, в порядке создания).
	GetTraining(ctx context.Context, id int64) (*domain.Training, error)

	// GetTrainingForUpdate блокирует строку тренировки и возвращает её
	// вместе с группами (без более глубоких уровней).
	GetTrainingForUpdate(ctx context.Context, id int64) (*domain.Training, error)

	// ListTrainingsByUser возвращает тренировки пользователя (новые первыми),
	// с жадно загруженными поддеревьями.
	ListTrainingsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Training, error)

	// UpdateTraining обновляет дату и заголовок тренировки.
	// Возвращает ErrTrainingDateTaken при конфликте (user_id, date).
	UpdateTraining(ctx context.Context, id int64, date time.Time, title string) error

	// SetTrainingTitle обновляет только заголовок.
	SetTrainingTitle(ctx context.Context, id int64, title string) error

	// DeleteTraining удаляет тренировку; потомки удаляются каскадно.
	DeleteTraining(ctx context.Context, id int64) error

	// --- MuscleGroup ---

	// CreateMuscleGroup вставляет группу мышц вместе с её упражнениями и подходами.
	// Возвращает ErrGroupNameTaken при нарушении уникальности (training_id, group_name).
	CreateMuscleGroup(ctx context.Context, g *domain.MuscleGroup) error

	// GetMuscleGroup возвращает группу с упражнениями и подходами.
	GetMuscleGroup(ctx context.Context, id int64) (*domain.MuscleGroup, error)

	// GetMuscleGroupForUpdate блокирует строку группы и возвращает её с упражнениями.
	GetMuscleGroupForUpdate(ctx context.Context, id int64) (*domain.MuscleGroup, error)

	// RenameMuscleGroup меняет название группы.
	// Возвращает ErrGroupNameTaken при конфликте в пределах тренировки.
	RenameMuscleGroup(ctx context.Context, id int64, name string) error

	// DeleteMuscleGroup удаляет группу; упражнения и подходы — каскадно.
	DeleteMuscleGroup(ctx context.Context, id int64) error

	// --- Exercise ---

	// CreateExercise вставляет упражнение вместе с подходами.
	CreateExercise(ctx context.Context, e *domain.Exercise) error

	// GetExercise возвращает упражнение с подходами.
	GetExercise(ctx context.Context, id int64) (*domain.Exercise, error)

	// GetExerciseForUpdate блокирует строку упражнения и возвращает её с подходами.
	GetExerciseForUpdate(ctx context.Context, id int64) (*domain.Exercise, error)

	// UpdateExerciseWeight обновляет рабочий вес упражнения.
	UpdateExerciseWeight(ctx context.Context, id int64, weight float64) error

	// SetExerciseNumbersReps выставляет производный счётчик подходов.
	SetExerciseNumbersReps(ctx context.Context, id int64, numbersReps int) error

	// DeleteExercise удаляет упражнение; подходы — каскадно.
	DeleteExercise(ctx context.Context, id int64) error

	// --- Set ---

	// CreateSet вставляет подход.
	CreateSet(ctx context.Context, s *domain.Set) error

	// GetSet возвращает подход.
	GetSet(ctx context.Context, id int64) (*domain.Set, error)

	// UpdateSet обновляет вес и количество повторений подхода.
	UpdateSet(ctx context.Context, id int64, weightPerExe float64, reps int) error

	// DeleteSet удаляет подход.
	DeleteSet(ctx context.Context, id int64) error
}
