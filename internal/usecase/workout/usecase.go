package workout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	userdomain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/workout"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// Ошибки бизнес-логики дерева тренировок.
var (
	// ErrForbidden — вызывающий не владелец сущности и не администратор.
	ErrForbidden = errors.New("access to entity is forbidden")

	// Guard-ошибки «последнего ребёнка»: узел нельзя оставить без детей.
	ErrLastMuscleGroup = errors.New("cannot delete the last muscle group of a training")
	ErrLastExercise    = errors.New("cannot delete the last exercise of a muscle group")
	ErrLastSet         = errors.New("cannot delete the last set of an exercise")

	// ErrSameGroupName — новое название группы совпадает со старым (без учёта регистра).
	ErrSameGroupName = errors.New("new group name must differ from the current one")

	// Ошибки валидации полей.
	ErrNegativeWeight = errors.New("weight must be non-negative")
	ErrInvalidReps    = errors.New("reps must be positive")

	// Ошибки структуры создаваемого поддерева.
	ErrNoMuscleGroups = errors.New("training must contain at least one muscle group")
	ErrNoExercises    = errors.New("muscle group must contain at least one exercise")
	ErrNoSets         = errors.New("exercise must contain at least one set")
)

// SetInput описывает создаваемый подход.
type SetInput struct {
	WeightPerExe float64
	Reps         int
}

// ExerciseInput описывает создаваемое упражнение с подходами.
// Счётчик numbers_reps не принимается извне: он выводится из числа подходов.
type ExerciseInput struct {
	ExerciseName string
	Weight       float64
	Sets         []SetInput
}

// MuscleGroupInput описывает создаваемую группу мышц с упражнениями.
type MuscleGroupInput struct {
	GroupName string
	Exercises []ExerciseInput
}

// CreateTrainingInput описывает создаваемую тренировку с полным поддеревом.
type CreateTrainingInput struct {
	Date         time.Time
	MuscleGroups []MuscleGroupInput
}

// Service описывает usecase-слой дерева тренировок: авторизованный CRUD
// по всем четырём уровням с поддержанием производных полей.
//
// Каждая мутирующая операция выполняется по протоколу: загрузка цели →
// авторизация (владелец или администратор) → проверка структурных
// инвариантов → атомарная мутация вместе с пересчётом производных полей
// (заголовок тренировки, счётчик подходов) в одной транзакции хранилища.
type Service interface {
	CreateTraining(ctx context.Context, caller userdomain.Caller, in CreateTrainingInput) (*domain.Training, error)
	GetTraining(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Training, error)
	ListTrainings(ctx context.Context, caller userdomain.Caller, ownerID uuid.UUID) ([]*domain.Training, error)
	ChangeTrainingDate(ctx context.Context, caller userdomain.Caller, id int64, date time.Time) (*domain.Training, error)
	DeleteTraining(ctx context.Context, caller userdomain.Caller, id int64) error

	AddMuscleGroup(ctx context.Context, caller userdomain.Caller, trainingID int64, in MuscleGroupInput) (*domain.MuscleGroup, error)
	GetMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64) (*domain.MuscleGroup, error)
	RenameMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64, newName string) (*domain.MuscleGroup, error)
	DeleteMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64) error

	AddExercise(ctx context.Context, caller userdomain.Caller, muscleGroupID int64, in ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Exercise, error)
	UpdateExerciseWeight(ctx context.Context, caller userdomain.Caller, id int64, weight float64) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, caller userdomain.Caller, id int64) error

	AddSet(ctx context.Context, caller userdomain.Caller, exerciseID int64, in SetInput) (*domain.Set, error)
	GetSet(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Set, error)
	UpdateSet(ctx context.Context, caller userdomain.Caller, id int64, in SetInput) (*domain.Set, error)
	DeleteSet(ctx context.Context, caller userdomain.Caller, id int64) error
}

type service struct {
	workouts repo.WorkoutRepository
}

// NewService создаёт usecase-сервис дерева тренировок.
func NewService(workouts repo.WorkoutRepository) Service {
	return &service{workouts: workouts}
}

// authorize применяет базовое правило доступа: владелец либо администратор.
func authorize(caller userdomain.Caller, ownerID uuid.UUID) error {
	if !caller.CanAccess(ownerID) {
		return ErrForbidden
	}
	return nil
}

// normalizeDate усечёт дату до календарного дня в UTC; в уникальном
// ограничении (user_id, date) участвует именно день.
func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func validateSetInput(in SetInput) error {
	if in.WeightPerExe < 0 {
		return ErrNegativeWeight
	}
	if in.Reps <= 0 {
		return ErrInvalidReps
	}
	return nil
}

func validateExerciseInput(in ExerciseInput) error {
	if in.Weight < 0 {
		return ErrNegativeWeight
	}
	if len(in.Sets) == 0 {
		return ErrNoSets
	}
	for _, s := range in.Sets {
		if err := validateSetInput(s); err != nil {
			return err
		}
	}
	return nil
}

func validateMuscleGroupInput(in MuscleGroupInput) error {
	if len(in.Exercises) == 0 {
		return ErrNoExercises
	}
	for _, e := range in.Exercises {
		if err := validateExerciseInput(e); err != nil {
			return err
		}
	}
	return nil
}

// buildExercise собирает доменное упражнение из входа.
// Владелец потомков всегда копируется от владельца тренировки.
func buildExercise(in ExerciseInput, ownerID uuid.UUID) *domain.Exercise {
	e := &domain.Exercise{
		ExerciseName: strings.TrimSpace(in.ExerciseName),
		Weight:       in.Weight,
		NumbersReps:  len(in.Sets),
		UserID:       ownerID,
	}
	for _, s := range in.Sets {
		e.Sets = append(e.Sets, &domain.Set{
			WeightPerExe: s.WeightPerExe,
			Reps:         s.Reps,
			UserID:       ownerID,
		})
	}
	return e
}

func buildMuscleGroup(in MuscleGroupInput, ownerID uuid.UUID) *domain.MuscleGroup {
	g := &domain.MuscleGroup{
		GroupName: domain.NormalizeGroupName(in.GroupName),
		UserID:    ownerID,
	}
	for _, e := range in.Exercises {
		g.Exercises = append(g.Exercises, buildExercise(e, ownerID))
	}
	return g
}

// --- Training ---

// CreateTraining создаёт тренировку с полным поддеревом. Владельцем становится
// вызывающий; заголовок синтезируется из даты и названий групп.
func (s *service) CreateTraining(ctx context.Context, caller userdomain.Caller, in CreateTrainingInput) (*domain.Training, error) {
	if len(in.MuscleGroups) == 0 {
		return nil, ErrNoMuscleGroups
	}

	names := make([]string, 0, len(in.MuscleGroups))
	seen := make(map[string]struct{}, len(in.MuscleGroups))
	for _, g := range in.MuscleGroups {
		if err := validateMuscleGroupInput(g); err != nil {
			return nil, err
		}
		name := domain.NormalizeGroupName(g.GroupName)
		if _, ok := seen[strings.ToLower(name)]; ok {
			return nil, repo.ErrGroupNameTaken
		}
		seen[strings.ToLower(name)] = struct{}{}
		names = append(names, name)
	}

	date := normalizeDate(in.Date)
	t := &domain.Training{
		Date:   date,
		Title:  domain.Title(date, names),
		UserID: caller.ID,
	}
	for _, g := range in.MuscleGroups {
		t.MuscleGroups = append(t.MuscleGroups, buildMuscleGroup(g, caller.ID))
	}

	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		return tx.CreateTraining(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTraining возвращает тренировку с поддеревом. Доступ: владелец или администратор.
func (s *service) GetTraining(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Training, error) {
	t, err := s.workouts.GetTraining(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, t.UserID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTrainings возвращает тренировки владельца ownerID (uuid.Nil — свои).
// Чужой список доступен только администратору.
func (s *service) ListTrainings(ctx context.Context, caller userdomain.Caller, ownerID uuid.UUID) ([]*domain.Training, error) {
	if ownerID == uuid.Nil {
		ownerID = caller.ID
	}
	if err := authorize(caller, ownerID); err != nil {
		return nil, err
	}
	return s.workouts.ListTrainingsByUser(ctx, ownerID)
}

// ChangeTrainingDate меняет дату тренировки. Заголовок пересинтезируется из
// существующего списка групп; смена на ту же дату — no-op.
func (s *service) ChangeTrainingDate(ctx context.Context, caller userdomain.Caller, id int64, date time.Time) (*domain.Training, error) {
	date = normalizeDate(date)

	var result *domain.Training
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		t, err := tx.GetTrainingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(caller, t.UserID); err != nil {
			return err
		}

		if t.Date.Equal(date) {
			result, err = tx.GetTraining(ctx, id)
			return err
		}

		title := domain.Title(date, t.GroupNames())
		if err := tx.UpdateTraining(ctx, id, date, title); err != nil {
			return err
		}

		result, err = tx.GetTraining(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTraining удаляет тренировку со всем поддеревом.
func (s *service) DeleteTraining(ctx context.Context, caller userdomain.Caller, id int64) error {
	return s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		t, err := tx.GetTrainingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(caller, t.UserID); err != nil {
			return err
		}
		return tx.DeleteTraining(ctx, id)
	})
}

// --- MuscleGroup ---

// AddMuscleGroup добавляет группу мышц (с упражнениями и подходами) в тренировку
// и дописывает её название в заголовок.
func (s *service) AddMuscleGroup(ctx context.Context, caller userdomain.Caller, trainingID int64, in MuscleGroupInput) (*domain.MuscleGroup, error) {
	if err := validateMuscleGroupInput(in); err != nil {
		return nil, err
	}

	var result *domain.MuscleGroup
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		t, err := tx.GetTrainingForUpdate(ctx, trainingID)
		if err != nil {
			return err
		}
		if err := authorize(caller, t.UserID); err != nil {
			return err
		}

		name := domain.NormalizeGroupName(in.GroupName)
		if t.HasGroup(name) {
			return repo.ErrGroupNameTaken
		}

		// user_id потомков копируется от владельца тренировки,
		// даже если группу добавляет администратор.
		g := buildMuscleGroup(in, t.UserID)
		g.TrainingID = t.ID
		if err := tx.CreateMuscleGroup(ctx, g); err != nil {
			return err
		}

		title := domain.Title(t.Date, append(t.GroupNames(), name))
		if err := tx.SetTrainingTitle(ctx, t.ID, title); err != nil {
			return err
		}

		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMuscleGroup возвращает группу с упражнениями и подходами.
func (s *service) GetMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64) (*domain.MuscleGroup, error) {
	g, err := s.workouts.GetMuscleGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, g.UserID); err != nil {
		return nil, err
	}
	return g, nil
}

// RenameMuscleGroup переименовывает группу и заменяет её токен в заголовке,
// сохраняя позицию. Совпадение со старым названием (без учёта регистра) и
// дубликат в тренировке отклоняются.
func (s *service) RenameMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64, newName string) (*domain.MuscleGroup, error) {
	name := domain.NormalizeGroupName(newName)

	var result *domain.MuscleGroup
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		g, err := tx.GetMuscleGroup(ctx, id)
		if err != nil {
			return err
		}

		t, err := tx.GetTrainingForUpdate(ctx, g.TrainingID)
		if err != nil {
			return err
		}
		if err := authorize(caller, t.UserID); err != nil {
			return err
		}

		if strings.EqualFold(g.GroupName, name) {
			return ErrSameGroupName
		}
		if t.HasGroup(name) {
			return repo.ErrGroupNameTaken
		}

		if err := tx.RenameMuscleGroup(ctx, id, name); err != nil {
			return err
		}

		// Заголовок собирается заново из актуального списка групп,
		// токен заменяется на своей позиции.
		names := make([]string, 0, len(t.MuscleGroups))
		for _, mg := range t.MuscleGroups {
			if mg.ID == id {
				names = append(names, name)
			} else {
				names = append(names, mg.GroupName)
			}
		}
		if err := tx.SetTrainingTitle(ctx, t.ID, domain.Title(t.Date, names)); err != nil {
			return err
		}

		result, err = tx.GetMuscleGroup(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteMuscleGroup удаляет группу (с каскадом) и убирает её название из
// заголовка. Последнюю группу тренировки удалить нельзя.
func (s *service) DeleteMuscleGroup(ctx context.Context, caller userdomain.Caller, id int64) error {
	return s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		g, err := tx.GetMuscleGroup(ctx, id)
		if err != nil {
			return err
		}

		t, err := tx.GetTrainingForUpdate(ctx, g.TrainingID)
		if err != nil {
			return err
		}
		if err := authorize(caller, t.UserID); err != nil {
			return err
		}

		// Подсчёт идёт по списку, прочитанному под блокировкой строки
		// тренировки: конкурентное удаление не обойдёт guard.
		if len(t.MuscleGroups) <= 1 {
			return ErrLastMuscleGroup
		}

		if err := tx.DeleteMuscleGroup(ctx, id); err != nil {
			return err
		}

		names := make([]string, 0, len(t.MuscleGroups)-1)
		for _, mg := range t.MuscleGroups {
			if mg.ID != id {
				names = append(names, mg.GroupName)
			}
		}
		return tx.SetTrainingTitle(ctx, t.ID, domain.Title(t.Date, names))
	})
}

// --- Exercise ---

// AddExercise добавляет упражнение с подходами в группу;
// numbers_reps инициализируется числом подходов.
func (s *service) AddExercise(ctx context.Context, caller userdomain.Caller, muscleGroupID int64, in ExerciseInput) (*domain.Exercise, error) {
	if err := validateExerciseInput(in); err != nil {
		return nil, err
	}

	var result *domain.Exercise
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		g, err := tx.GetMuscleGroupForUpdate(ctx, muscleGroupID)
		if err != nil {
			return err
		}
		if err := authorize(caller, g.UserID); err != nil {
			return err
		}

		e := buildExercise(in, g.UserID)
		e.MuscleGroupID = g.ID
		if err := tx.CreateExercise(ctx, e); err != nil {
			return err
		}

		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetExercise возвращает упражнение с подходами.
func (s *service) GetExercise(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Exercise, error) {
	e, err := s.workouts.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, e.UserID); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExerciseWeight меняет рабочий вес упражнения.
// Установка текущего значения — идемпотентный no-op.
func (s *service) UpdateExerciseWeight(ctx context.Context, caller userdomain.Caller, id int64, weight float64) (*domain.Exercise, error) {
	if weight < 0 {
		return nil, ErrNegativeWeight
	}

	var result *domain.Exercise
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		e, err := tx.GetExerciseForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(caller, e.UserID); err != nil {
			return err
		}

		if e.Weight == weight {
			result = e
			return nil
		}

		if err := tx.UpdateExerciseWeight(ctx, id, weight); err != nil {
			return err
		}
		e.Weight = weight
		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteExercise удаляет упражнение (с каскадом подходов).
// Последнее упражнение группы удалить нельзя.
func (s *service) DeleteExercise(ctx context.Context, caller userdomain.Caller, id int64) error {
	return s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		e, err := tx.GetExercise(ctx, id)
		if err != nil {
			return err
		}

		g, err := tx.GetMuscleGroupForUpdate(ctx, e.MuscleGroupID)
		if err != nil {
			return err
		}
		if err := authorize(caller, g.UserID); err != nil {
			return err
		}

		if len(g.Exercises) <= 1 {
			return ErrLastExercise
		}
		return tx.DeleteExercise(ctx, id)
	})
}

// --- Set ---

// AddSet добавляет подход к упражнению и инкрементирует numbers_reps
// в той же транзакции.
func (s *service) AddSet(ctx context.Context, caller userdomain.Caller, exerciseID int64, in SetInput) (*domain.Set, error) {
	if err := validateSetInput(in); err != nil {
		return nil, err
	}

	var result *domain.Set
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		e, err := tx.GetExerciseForUpdate(ctx, exerciseID)
		if err != nil {
			return err
		}
		if err := authorize(caller, e.UserID); err != nil {
			return err
		}

		set := &domain.Set{
			ExerciseID:   e.ID,
			WeightPerExe: in.WeightPerExe,
			Reps:         in.Reps,
			UserID:       e.UserID,
		}
		if err := tx.CreateSet(ctx, set); err != nil {
			return err
		}

		if err := tx.SetExerciseNumbersReps(ctx, e.ID, len(e.Sets)+1); err != nil {
			return err
		}

		result = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSet возвращает подход.
func (s *service) GetSet(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Set, error) {
	set, err := s.workouts.GetSet(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, set.UserID); err != nil {
		return nil, err
	}
	return set, nil
}

// UpdateSet меняет вес и повторения подхода.
// Установка текущих значений — идемпотентный no-op.
func (s *service) UpdateSet(ctx context.Context, caller userdomain.Caller, id int64, in SetInput) (*domain.Set, error) {
	if err := validateSetInput(in); err != nil {
		return nil, err
	}

	var result *domain.Set
	err := s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		set, err := tx.GetSet(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(caller, set.UserID); err != nil {
			return err
		}

		if set.WeightPerExe == in.WeightPerExe && set.Reps == in.Reps {
			result = set
			return nil
		}

		if err := tx.UpdateSet(ctx, id, in.WeightPerExe, in.Reps); err != nil {
			return err
		}
		set.WeightPerExe = in.WeightPerExe
		set.Reps = in.Reps
		result = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSet удаляет подход и декрементирует numbers_reps.
// Последний подход упражнения удалить нельзя.
func (s *service) DeleteSet(ctx context.Context, caller userdomain.Caller, id int64) error {
	return s.workouts.WithinTx(ctx, func(tx repo.WorkoutRepository) error {
		set, err := tx.GetSet(ctx, id)
		if err != nil {
			return err
		}

		e, err := tx.GetExerciseForUpdate(ctx, set.ExerciseID)
		if err != nil {
			return err
		}
		if err := authorize(caller, e.UserID); err != nil {
			return err
		}

		if len(e.Sets) <= 1 {
			return ErrLastSet
		}

		if err := tx.DeleteSet(ctx, id); err != nil {
			return err
		}
		return tx.SetExerciseNumbersReps(ctx, e.ID, len(e.Sets)-1)
	})
}
