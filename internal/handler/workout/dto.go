package workout

import (
	"time"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/workout"
)

// dateLayout — формат дат в API (ISO 8601, только день).
const dateLayout = "2006-01-02"

// CreateSetRequest описывает создаваемый подход.
type CreateSetRequest struct {
	WeightPerExe float64 `json:"weight_per_exe" binding:"gte=0"`
	Reps         int     `json:"reps" binding:"required,gt=0"`
}

// CreateExerciseRequest описывает создаваемое упражнение.
// Счётчик numbers_reps клиентом не передаётся: он выводится из числа подходов.
type CreateExerciseRequest struct {
	ExerciseName string             `json:"exercise_name" binding:"required,min=1,max=100"`
	Weight       float64            `json:"weight" binding:"gte=0"`
	Sets         []CreateSetRequest `json:"sets" binding:"required,min=1,dive"`
}

// CreateMuscleGroupRequest описывает создаваемую группу мышц.
type CreateMuscleGroupRequest struct {
	GroupName string                  `json:"group_name" binding:"required,min=1,max=100"`
	Exercises []CreateExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

// CreateTrainingRequest описывает создаваемую тренировку с полным поддеревом.
type CreateTrainingRequest struct {
	Date         string                     `json:"date" binding:"required"`
	MuscleGroups []CreateMuscleGroupRequest `json:"muscle_groups" binding:"required,min=1,dive"`
}

// UpdateTrainingDateRequest описывает перенос тренировки на другую дату.
type UpdateTrainingDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// RenameMuscleGroupRequest описывает переименование группы мышц.
type RenameMuscleGroupRequest struct {
	GroupName string `json:"group_name" binding:"required,min=1,max=100"`
}

// UpdateExerciseRequest описывает изменение рабочего веса упражнения.
type UpdateExerciseRequest struct {
	Weight *float64 `json:"weight" binding:"required,gte=0"`
}

// UpdateSetRequest описывает изменение подхода.
type UpdateSetRequest struct {
	WeightPerExe float64 `json:"weight_per_exe" binding:"gte=0"`
	Reps         int     `json:"reps" binding:"required,gt=0"`
}

// SetResponse описывает подход в ответах API.
type SetResponse struct {
	ID           int64   `json:"id"`
	WeightPerExe float64 `json:"weight_per_exe"`
	Reps         int     `json:"reps"`
}

// ExerciseResponse описывает упражнение с подходами.
type ExerciseResponse struct {
	ID           int64         `json:"id"`
	ExerciseName string        `json:"exercise_name"`
	Weight       float64       `json:"weight"`
	NumbersReps  int           `json:"numbers_reps"`
	Sets         []SetResponse `json:"sets"`
}

// MuscleGroupResponse описывает группу мышц с упражнениями.
type MuscleGroupResponse struct {
	ID        int64              `json:"id"`
	GroupName string             `json:"group_name"`
	Exercises []ExerciseResponse `json:"exercises"`
}

// TrainingResponse описывает тренировку с полным поддеревом.
type TrainingResponse struct {
	ID           int64                 `json:"id"`
	Date         string                `json:"date"`
	Title        string                `json:"title"`
	MuscleGroups []MuscleGroupResponse `json:"muscle_groups"`
}

// --- маппинг домен -> DTO ---

func toSetResponse(s *domain.Set) SetResponse {
	return SetResponse{
		ID:           s.ID,
		WeightPerExe: s.WeightPerExe,
		Reps:         s.Reps,
	}
}

func toExerciseResponse(e *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:           e.ID,
		ExerciseName: e.ExerciseName,
		Weight:       e.Weight,
		NumbersReps:  e.NumbersReps,
		Sets:         make([]SetResponse, 0, len(e.Sets)),
	}
	for _, s := range e.Sets {
		resp.Sets = append(resp.Sets, toSetResponse(s))
	}
	return resp
}

func toMuscleGroupResponse(g *domain.MuscleGroup) MuscleGroupResponse {
	resp := MuscleGroupResponse{
		ID:        g.ID,
		GroupName: g.GroupName,
		Exercises: make([]ExerciseResponse, 0, len(g.Exercises)),
	}
	for _, e := range g.Exercises {
		resp.Exercises = append(resp.Exercises, toExerciseResponse(e))
	}
	return resp
}

func toTrainingResponse(t *domain.Training) TrainingResponse {
	resp := TrainingResponse{
		ID:           t.ID,
		Date:         t.Date.Format(dateLayout),
		Title:        t.Title,
		MuscleGroups: make([]MuscleGroupResponse, 0, len(t.MuscleGroups)),
	}
	for _, g := range t.MuscleGroups {
		resp.MuscleGroups = append(resp.MuscleGroups, toMuscleGroupResponse(g))
	}
	return resp
}

// parseDate разбирает дату формата YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
