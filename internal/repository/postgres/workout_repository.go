package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/workout"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// ORM-модели дерева тренировки. Идентификаторы — BIGSERIAL, поэтому порядок
// создания совпадает с порядком id; все выборки детей упорядочены по id.

type pgTraining struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Date         time.Time       `gorm:"column:date;type:date;not null"`
	Title        string          `gorm:"column:title;type:text;not null"`
	UserID       string          `gorm:"column:user_id;type:uuid;not null"`
	MuscleGroups []pgMuscleGroup `gorm:"foreignKey:TrainingID"`
}

func (pgTraining) TableName() string { return "trainings" }

type pgMuscleGroup struct {
	ID         int64        `gorm:"column:id;primaryKey;autoIncrement"`
	TrainingID int64        `gorm:"column:training_id;not null"`
	GroupName  string       `gorm:"column:group_name;type:varchar(100);not null"`
	UserID     string       `gorm:"column:user_id;type:uuid;not null"`
	Exercises  []pgExercise `gorm:"foreignKey:MuscleGroupID"`
}

func (pgMuscleGroup) TableName() string { return "muscle_groups" }

type pgExercise struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	MuscleGroupID int64   `gorm:"column:muscle_group_id;not null"`
	ExerciseName  string  `gorm:"column:exercise_name;type:varchar(100);not null"`
	Weight        float64 `gorm:"column:weight;not null"`
	NumbersReps   int     `gorm:"column:numbers_reps;not null"`
	UserID        string  `gorm:"column:user_id;type:uuid;not null"`
	Sets          []pgSet `gorm:"foreignKey:ExerciseID"`
}

func (pgExercise) TableName() string { return "exercises" }

type pgSet struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	ExerciseID   int64   `gorm:"column:exercise_id;not null"`
	WeightPerExe float64 `gorm:"column:weight_per_exe;not null"`
	Reps         int     `gorm:"column:reps;not null"`
	UserID       string  `gorm:"column:user_id;type:uuid;not null"`
}

func (pgSet) TableName() string { return "sets" }

// WorkoutRepository реализует repo.WorkoutRepository с использованием GORM и Postgres.
type WorkoutRepository struct {
	db *gorm.DB
}

var _ repo.WorkoutRepository = (*WorkoutRepository)(nil)

// NewWorkoutRepository создает новый репозиторий дерева тренировок.
func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// WithinTx выполняет fn в одной транзакции БД. Паника или ошибка из fn
// откатывают транзакцию; повторный вызов внутри транзакции использует
// вложенный savepoint GORM.
func (r *WorkoutRepository) WithinTx(ctx context.Context, fn func(repo.WorkoutRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&WorkoutRepository{db: tx})
	})
}

// byID возвращает порядок выборки детей (порядок создания).
func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// --- маппинг ORM <-> домен ---

func setToDomain(m *pgSet) (*domain.Set, error) {
	uid, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.Set{
		ID:           m.ID,
		ExerciseID:   m.ExerciseID,
		WeightPerExe: m.WeightPerExe,
		Reps:         m.Reps,
		UserID:       uid,
	}, nil
}

func exerciseToDomain(m *pgExercise) (*domain.Exercise, error) {
	uid, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	e := &domain.Exercise{
		ID:            m.ID,
		MuscleGroupID: m.MuscleGroupID,
		ExerciseName:  m.ExerciseName,
		Weight:        m.Weight,
		NumbersReps:   m.NumbersReps,
		UserID:        uid,
		Sets:          make([]*domain.Set, 0, len(m.Sets)),
	}
	for i := range m.Sets {
		s, err := setToDomain(&m.Sets[i])
		if err != nil {
			return nil, err
		}
		e.Sets = append(e.Sets, s)
	}
	return e, nil
}

func muscleGroupToDomain(m *pgMuscleGroup) (*domain.MuscleGroup, error) {
	uid, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	g := &domain.MuscleGroup{
		ID:         m.ID,
		TrainingID: m.TrainingID,
		GroupName:  m.GroupName,
		UserID:     uid,
		Exercises:  make([]*domain.Exercise, 0, len(m.Exercises)),
	}
	for i := range m.Exercises {
		e, err := exerciseToDomain(&m.Exercises[i])
		if err != nil {
			return nil, err
		}
		g.Exercises = append(g.Exercises, e)
	}
	return g, nil
}

func trainingToDomain(m *pgTraining) (*domain.Training, error) {
	uid, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	t := &domain.Training{
		ID:           m.ID,
		Date:         m.Date,
		Title:        m.Title,
		UserID:       uid,
		MuscleGroups: make([]*domain.MuscleGroup, 0, len(m.MuscleGroups)),
	}
	for i := range m.MuscleGroups {
		g, err := muscleGroupToDomain(&m.MuscleGroups[i])
		if err != nil {
			return nil, err
		}
		t.MuscleGroups = append(t.MuscleGroups, g)
	}
	return t, nil
}

// --- Training ---

// CreateTraining вставляет тренировку и всё её поддерево уровень за уровнем.
// Сгенерированные БД идентификаторы проставляются обратно в доменную модель.
func (r *WorkoutRepository) CreateTraining(ctx context.Context, t *domain.Training) error {
	model := &pgTraining{
		Date:   t.Date,
		Title:  t.Title,
		UserID: t.UserID.String(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err, "uq_user_training_date") {
			return repo.ErrTrainingDateTaken
		}
		return err
	}
	t.ID = model.ID

	for _, g := range t.MuscleGroups {
		g.TrainingID = t.ID
		if err := r.CreateMuscleGroup(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// GetTraining возвращает тренировку с полным поддеревом в порядке создания.
func (r *WorkoutRepository) GetTraining(ctx context.Context, id int64) (*domain.Training, error) {
	var model pgTraining
	err := r.db.WithContext(ctx).
		Preload("MuscleGroups", byID).
		Preload("MuscleGroups.Exercises", byID).
		Preload("MuscleGroups.Exercises.Sets", byID).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return trainingToDomain(&model)
}

// GetTrainingForUpdate блокирует строку тренировки (FOR UPDATE) и подгружает группы.
// Блокировка сериализует конкурентные мутации детей этой тренировки.
func (r *WorkoutRepository) GetTrainingForUpdate(ctx context.Context, id int64) (*domain.Training, error) {
	var model pgTraining
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Группы выбираются отдельным запросом уже под блокировкой родителя.
	if err := r.db.WithContext(ctx).
		Where("training_id = ?", id).
		Order("id").
		Find(&model.MuscleGroups).Error; err != nil {
		return nil, err
	}
	return trainingToDomain(&model)
}

// ListTrainingsByUser возвращает тренировки пользователя, новые первыми.
func (r *WorkoutRepository) ListTrainingsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Training, error) {
	var models []pgTraining
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("date DESC").
		Preload("MuscleGroups", byID).
		Preload("MuscleGroups.Exercises", byID).
		Preload("MuscleGroups.Exercises.Sets", byID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	trainings := make([]*domain.Training, 0, len(models))
	for i := range models {
		t, err := trainingToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		trainings = append(trainings, t)
	}
	return trainings, nil
}

// UpdateTraining обновляет дату и заголовок.
func (r *WorkoutRepository) UpdateTraining(ctx context.Context, id int64, date time.Time, title string) error {
	result := r.db.WithContext(ctx).
		Model(&pgTraining{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date":  date,
			"title": title,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error, "uq_user_training_date") {
			return repo.ErrTrainingDateTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SetTrainingTitle обновляет только заголовок.
func (r *WorkoutRepository) SetTrainingTitle(ctx context.Context, id int64, title string) error {
	result := r.db.WithContext(ctx).
		Model(&pgTraining{}).
		Where("id = ?", id).
		Update("title", title)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteTraining удаляет тренировку; поддерево удаляется каскадом БД.
func (r *WorkoutRepository) DeleteTraining(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&pgTraining{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// --- MuscleGroup ---

// CreateMuscleGroup вставляет группу мышц вместе с упражнениями и подходами.
func (r *WorkoutRepository) CreateMuscleGroup(ctx context.Context, g *domain.MuscleGroup) error {
	model := &pgMuscleGroup{
		TrainingID: g.TrainingID,
		GroupName:  g.GroupName,
		UserID:     g.UserID.String(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err, "uq_training_group_name") {
			return repo.ErrGroupNameTaken
		}
		return err
	}
	g.ID = model.ID

	for _, e := range g.Exercises {
		e.MuscleGroupID = g.ID
		if err := r.CreateExercise(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// GetMuscleGroup возвращает группу с упражнениями и подходами.
func (r *WorkoutRepository) GetMuscleGroup(ctx context.Context, id int64) (*domain.MuscleGroup, error) {
	var model pgMuscleGroup
	err := r.db.WithContext(ctx).
		Preload("Exercises", byID).
		Preload("Exercises.Sets", byID).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return muscleGroupToDomain(&model)
}

// GetMuscleGroupForUpdate блокирует строку группы и подгружает упражнения.
func (r *WorkoutRepository) GetMuscleGroupForUpdate(ctx context.Context, id int64) (*domain.MuscleGroup, error) {
	var model pgMuscleGroup
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("muscle_group_id = ?", id).
		Order("id").
		Find(&model.Exercises).Error; err != nil {
		return nil, err
	}
	return muscleGroupToDomain(&model)
}

// RenameMuscleGroup меняет название группы.
func (r *WorkoutRepository) RenameMuscleGroup(ctx context.Context, id int64, name string) error {
	result := r.db.WithContext(ctx).
		Model(&pgMuscleGroup{}).
		Where("id = ?", id).
		Update("group_name", name)

	if result.Error != nil {
		if isUniqueViolation(result.Error, "uq_training_group_name") {
			return repo.ErrGroupNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteMuscleGroup удаляет группу; упражнения и подходы — каскадом БД.
func (r *WorkoutRepository) DeleteMuscleGroup(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&pgMuscleGroup{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// --- Exercise ---

// CreateExercise вставляет упражнение вместе с подходами.
func (r *WorkoutRepository) CreateExercise(ctx context.Context, e *domain.Exercise) error {
	model := &pgExercise{
		MuscleGroupID: e.MuscleGroupID,
		ExerciseName:  e.ExerciseName,
		Weight:        e.Weight,
		NumbersReps:   e.NumbersReps,
		UserID:        e.UserID.String(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	e.ID = model.ID

	for _, s := range e.Sets {
		s.ExerciseID = e.ID
		if err := r.CreateSet(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// GetExercise возвращает упражнение с подходами.
func (r *WorkoutRepository) GetExercise(ctx context.Context, id int64) (*domain.Exercise, error) {
	var model pgExercise
	err := r.db.WithContext(ctx).
		Preload("Sets", byID).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return exerciseToDomain(&model)
}

// GetExerciseForUpdate блокирует строку упражнения и подгружает подходы.
// Блокировка делает пару «подсчёт подходов — запись» атомарной относительно
// конкурентных добавлений/удалений подходов того же упражнения.
func (r *WorkoutRepository) GetExerciseForUpdate(ctx context.Context, id int64) (*domain.Exercise, error) {
	var model pgExercise
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("exercise_id = ?", id).
		Order("id").
		Find(&model.Sets).Error; err != nil {
		return nil, err
	}
	return exerciseToDomain(&model)
}

// UpdateExerciseWeight обновляет рабочий вес упражнения.
func (r *WorkoutRepository) UpdateExerciseWeight(ctx context.Context, id int64, weight float64) error {
	result := r.db.WithContext(ctx).
		Model(&pgExercise{}).
		Where("id = ?", id).
		Update("weight", weight)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SetExerciseNumbersReps выставляет производный счётчик подходов.
func (r *WorkoutRepository) SetExerciseNumbersReps(ctx context.Context, id int64, numbersReps int) error {
	result := r.db.WithContext(ctx).
		Model(&pgExercise{}).
		Where("id = ?", id).
		Update("numbers_reps", numbersReps)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteExercise удаляет упражнение; подходы — каскадом БД.
func (r *WorkoutRepository) DeleteExercise(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&pgExercise{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// --- Set ---

// CreateSet вставляет подход.
func (r *WorkoutRepository) CreateSet(ctx context.Context, s *domain.Set) error {
	model := &pgSet{
		ExerciseID:   s.ExerciseID,
		WeightPerExe: s.WeightPerExe,
		Reps:         s.Reps,
		UserID:       s.UserID.String(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	s.ID = model.ID
	return nil
}

// GetSet возвращает подход.
func (r *WorkoutRepository) GetSet(ctx context.Context, id int64) (*domain.Set, error) {
	var model pgSet
	err := r.db.WithContext(ctx).Take(&model, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return setToDomain(&model)
}

// UpdateSet обновляет вес и повторения подхода.
func (r *WorkoutRepository) UpdateSet(ctx context.Context, id int64, weightPerExe float64, reps int) error {
	result := r.db.WithContext(ctx).
		Model(&pgSet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"weight_per_exe": weightPerExe,
			"reps":           reps,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// DeleteSet удаляет подход.
func (r *WorkoutRepository) DeleteSet(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&pgSet{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
