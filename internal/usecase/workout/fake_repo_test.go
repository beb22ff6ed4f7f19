package workout_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/workout"
	repo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
)

// fakeWorkoutRepo — in-memory реализация WorkoutRepository для unit-тестов.
// Сущности хранятся плоско; деревья собираются на чтении в порядке ID
// (что соответствует порядку создания). WithinTx сериализует "транзакции"
// мьютексом, имитируя блокировки строк настоящего хранилища.
type fakeWorkoutRepo struct {
	mu     sync.Mutex
	nextID int64

	trainings map[int64]*domain.Training
	groups    map[int64]*domain.MuscleGroup
	exercises map[int64]*domain.Exercise
	sets      map[int64]*domain.Set
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{
		trainings: make(map[int64]*domain.Training),
		groups:    make(map[int64]*domain.MuscleGroup),
		exercises: make(map[int64]*domain.Exercise),
		sets:      make(map[int64]*domain.Set),
	}
}

func (r *fakeWorkoutRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *fakeWorkoutRepo) WithinTx(_ context.Context, fn func(repo.WorkoutRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

// --- Training ---

func (r *fakeWorkoutRepo) CreateTraining(ctx context.Context, t *domain.Training) error {
	for _, other := range r.trainings {
		if other.UserID == t.UserID && other.Date.Equal(t.Date) {
			return repo.ErrTrainingDateTaken
		}
	}

	t.ID = r.id()
	r.trainings[t.ID] = &domain.Training{
		ID:     t.ID,
		Date:   t.Date,
		Title:  t.Title,
		UserID: t.UserID,
	}
	for _, g := range t.MuscleGroups {
		g.TrainingID = t.ID
		if err := r.CreateMuscleGroup(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) GetTraining(_ context.Context, id int64) (*domain.Training, error) {
	return r.loadTraining(id, true)
}

func (r *fakeWorkoutRepo) GetTrainingForUpdate(_ context.Context, id int64) (*domain.Training, error) {
	return r.loadTraining(id, false)
}

func (r *fakeWorkoutRepo) loadTraining(id int64, deep bool) (*domain.Training, error) {
	stored, ok := r.trainings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	t := &domain.Training{
		ID:     stored.ID,
		Date:   stored.Date,
		Title:  stored.Title,
		UserID: stored.UserID,
	}
	for _, g := range r.groupsOf(id) {
		if deep {
			loaded, err := r.loadMuscleGroup(g.ID, true)
			if err != nil {
				return nil, err
			}
			t.MuscleGroups = append(t.MuscleGroups, loaded)
		} else {
			t.MuscleGroups = append(t.MuscleGroups, g)
		}
	}
	return t, nil
}

func (r *fakeWorkoutRepo) ListTrainingsByUser(_ context.Context, userID uuid.UUID) ([]*domain.Training, error) {
	var result []*domain.Training
	for id, stored := range r.trainings {
		if stored.UserID != userID {
			continue
		}
		t, err := r.loadTraining(id, true)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (r *fakeWorkoutRepo) UpdateTraining(_ context.Context, id int64, date time.Time, title string) error {
	t, ok := r.trainings[id]
	if !ok {
		return repo.ErrNotFound
	}
	for otherID, other := range r.trainings {
		if otherID != id && other.UserID == t.UserID && other.Date.Equal(date) {
			return repo.ErrTrainingDateTaken
		}
	}
	t.Date = date
	t.Title = title
	return nil
}

func (r *fakeWorkoutRepo) SetTrainingTitle(_ context.Context, id int64, title string) error {
	t, ok := r.trainings[id]
	if !ok {
		return repo.ErrNotFound
	}
	t.Title = title
	return nil
}

func (r *fakeWorkoutRepo) DeleteTraining(ctx context.Context, id int64) error {
	if _, ok := r.trainings[id]; !ok {
		return repo.ErrNotFound
	}
	for _, g := range r.groupsOf(id) {
		_ = r.DeleteMuscleGroup(ctx, g.ID)
	}
	delete(r.trainings, id)
	return nil
}

// --- MuscleGroup ---

func (r *fakeWorkoutRepo) CreateMuscleGroup(ctx context.Context, g *domain.MuscleGroup) error {
	for _, other := range r.groups {
		if other.TrainingID == g.TrainingID && strings.EqualFold(other.GroupName, g.GroupName) {
			return repo.ErrGroupNameTaken
		}
	}

	g.ID = r.id()
	r.groups[g.ID] = &domain.MuscleGroup{
		ID:         g.ID,
		TrainingID: g.TrainingID,
		GroupName:  g.GroupName,
		UserID:     g.UserID,
	}
	for _, e := range g.Exercises {
		e.MuscleGroupID = g.ID
		if err := r.CreateExercise(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) GetMuscleGroup(_ context.Context, id int64) (*domain.MuscleGroup, error) {
	return r.loadMuscleGroup(id, true)
}

func (r *fakeWorkoutRepo) GetMuscleGroupForUpdate(_ context.Context, id int64) (*domain.MuscleGroup, error) {
	return r.loadMuscleGroup(id, false)
}

func (r *fakeWorkoutRepo) loadMuscleGroup(id int64, deep bool) (*domain.MuscleGroup, error) {
	stored, ok := r.groups[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	g := &domain.MuscleGroup{
		ID:         stored.ID,
		TrainingID: stored.TrainingID,
		GroupName:  stored.GroupName,
		UserID:     stored.UserID,
	}
	for _, e := range r.exercisesOf(id) {
		if deep {
			loaded, err := r.loadExercise(e.ID)
			if err != nil {
				return nil, err
			}
			g.Exercises = append(g.Exercises, loaded)
		} else {
			g.Exercises = append(g.Exercises, e)
		}
	}
	return g, nil
}

func (r *fakeWorkoutRepo) RenameMuscleGroup(_ context.Context, id int64, name string) error {
	g, ok := r.groups[id]
	if !ok {
		return repo.ErrNotFound
	}
	for otherID, other := range r.groups {
		if otherID != id && other.TrainingID == g.TrainingID && strings.EqualFold(other.GroupName, name) {
			return repo.ErrGroupNameTaken
		}
	}
	g.GroupName = name
	return nil
}

func (r *fakeWorkoutRepo) DeleteMuscleGroup(ctx context.Context, id int64) error {
	if _, ok := r.groups[id]; !ok {
		return repo.ErrNotFound
	}
	for _, e := range r.exercisesOf(id) {
		_ = r.DeleteExercise(ctx, e.ID)
	}
	delete(r.groups, id)
	return nil
}

// --- Exercise ---

func (r *fakeWorkoutRepo) CreateExercise(ctx context.Context, e *domain.Exercise) error {
	e.ID = r.id()
	r.exercises[e.ID] = &domain.Exercise{
		ID:            e.ID,
		MuscleGroupID: e.MuscleGroupID,
		ExerciseName:  e.ExerciseName,
		Weight:        e.Weight,
		NumbersReps:   e.NumbersReps,
		UserID:        e.UserID,
	}
	for _, s := range e.Sets {
		s.ExerciseID = e.ID
		if err := r.CreateSet(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) GetExercise(_ context.Context, id int64) (*domain.Exercise, error) {
	return r.loadExercise(id)
}

func (r *fakeWorkoutRepo) GetExerciseForUpdate(_ context.Context, id int64) (*domain.Exercise, error) {
	return r.loadExercise(id)
}

func (r *fakeWorkoutRepo) loadExercise(id int64) (*domain.Exercise, error) {
	stored, ok := r.exercises[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	e := &domain.Exercise{
		ID:            stored.ID,
		MuscleGroupID: stored.MuscleGroupID,
		ExerciseName:  stored.ExerciseName,
		Weight:        stored.Weight,
		NumbersReps:   stored.NumbersReps,
		UserID:        stored.UserID,
	}
	e.Sets = r.setsOf(id)
	return e, nil
}

func (r *fakeWorkoutRepo) UpdateExerciseWeight(_ context.Context, id int64, weight float64) error {
	e, ok := r.exercises[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.Weight = weight
	return nil
}

func (r *fakeWorkoutRepo) SetExerciseNumbersReps(_ context.Context, id int64, numbersReps int) error {
	e, ok := r.exercises[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.NumbersReps = numbersReps
	return nil
}

func (r *fakeWorkoutRepo) DeleteExercise(_ context.Context, id int64) error {
	if _, ok := r.exercises[id]; !ok {
		return repo.ErrNotFound
	}
	for _, s := range r.setsOf(id) {
		delete(r.sets, s.ID)
	}
	delete(r.exercises, id)
	return nil
}

// --- Set ---

func (r *fakeWorkoutRepo) CreateSet(_ context.Context, s *domain.Set) error {
	s.ID = r.id()
	r.sets[s.ID] = &domain.Set{
		ID:           s.ID,
		ExerciseID:   s.ExerciseID,
		WeightPerExe: s.WeightPerExe,
		Reps:         s.Reps,
		UserID:       s.UserID,
	}
	return nil
}

func (r *fakeWorkoutRepo) GetSet(_ context.Context, id int64) (*domain.Set, error) {
	stored, ok := r.sets[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *stored
	return &cp, nil
}

func (r *fakeWorkoutRepo) UpdateSet(_ context.Context, id int64, weightPerExe float64, reps int) error {
	s, ok := r.sets[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.WeightPerExe = weightPerExe
	s.Reps = reps
	return nil
}

func (r *fakeWorkoutRepo) DeleteSet(_ context.Context, id int64) error {
	if _, ok := r.sets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.sets, id)
	return nil
}

// --- выборки детей в порядке создания ---

func (r *fakeWorkoutRepo) groupsOf(trainingID int64) []*domain.MuscleGroup {
	var result []*domain.MuscleGroup
	for _, g := range r.groups {
		if g.TrainingID == trainingID {
			cp := *g
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeWorkoutRepo) exercisesOf(muscleGroupID int64) []*domain.Exercise {
	var result []*domain.Exercise
	for _, e := range r.exercises {
		if e.MuscleGroupID == muscleGroupID {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeWorkoutRepo) setsOf(exerciseID int64) []*domain.Set {
	var result []*domain.Set
	for _, s := range r.sets {
		if s.ExerciseID == exerciseID {
			cp := *s
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
