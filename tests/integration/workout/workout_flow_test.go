//go:build integration
// +build integration

package workout_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	authhandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/auth"
	workouthandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/workout"
	testcfg "github.com/hhqqrrzz1/Fitness-app-backend/tests/integration/config"
)

// registerAndLogin регистрирует пользователя и возвращает его access-токен.
func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":"%s@example.com","username":"%s","password":"Password123!"}`, username, username)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader(fmt.Sprintf(`{"username":"%s","password":"Password123!"}`, username)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token authhandler.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	return token.AccessToken
}

func doJSON(t *testing.T, router *gin.Engine, method, path, access, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+access)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

const chestTraining = `{
	"date": "2024-01-10",
	"muscle_groups": [
		{
			"group_name": "chest",
			"exercises": [
				{
					"exercise_name": "Bench Press",
					"weight": 80,
					"sets": [
						{"weight_per_exe": 80, "reps": 10},
						{"weight_per_exe": 85, "reps": 8}
					]
				}
			]
		}
	]
}`

// TestWorkout_TitleLifecycle проверяет сценарий жизни заголовка:
// create -> "10.01.2024-Chest" -> add legs -> "10.01.2024-Chest, Legs"
// -> rename legs->back -> "10.01.2024-Chest, Back" -> delete chest -> "10.01.2024-Back".
func TestWorkout_TitleLifecycle(t *testing.T) {
	router := testcfg.NewTestRouter(t)
	access := registerAndLogin(t, router, "title_user")

	// 1. Создание тренировки
	w := doJSON(t, router, http.MethodPost, "/api/v1/trainings", access, chestTraining)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var training workouthandler.TrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	require.Equal(t, "10.01.2024-Chest", training.Title)
	require.Equal(t, 2, training.MuscleGroups[0].Exercises[0].NumbersReps)

	// 2. Добавление второй группы
	legs := `{"group_name":"legs","exercises":[{"exercise_name":"Squat","weight":100,"sets":[{"weight_per_exe":100,"reps":5}]}]}`
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/trainings/%d/muscle-groups", training.ID), access, legs)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var legsGroup workouthandler.MuscleGroupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &legsGroup))
	require.Equal(t, "Legs", legsGroup.GroupName)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", training.ID), access, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	require.Equal(t, "10.01.2024-Chest, Legs", training.Title)

	// 3. Переименование — позиция имени в заголовке сохраняется
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/muscle-groups/%d", legsGroup.ID), access, `{"group_name":"back"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", training.ID), access, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	require.Equal(t, "10.01.2024-Chest, Back", training.Title)

	// 4. Удаление первой группы
	chestID := training.MuscleGroups[0].ID
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/muscle-groups/%d", chestID), access, "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", training.ID), access, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	require.Equal(t, "10.01.2024-Back", training.Title)

	// 5. Последнюю группу удалить нельзя
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/muscle-groups/%d", training.MuscleGroups[0].ID), access, "")
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

// TestWorkout_DateChange проверяет перенос тренировки и конфликт дат.
func TestWorkout_DateChange(t *testing.T) {
	router := testcfg.NewTestRouter(t)
	access := registerAndLogin(t, router, "date_user")

	w := doJSON(t, router, http.MethodPost, "/api/v1/trainings", access, chestTraining)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var training workouthandler.TrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))

	// Вторая тренировка на ту же дату — 409
	w = doJSON(t, router, http.MethodPost, "/api/v1/trainings", access, chestTraining)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Перенос даты, заголовок пересчитан
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/trainings/%d", training.ID), access, `{"date":"2024-02-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	require.Equal(t, "2024-02-01", training.Date)
	require.Equal(t, "01.02.2024-Chest", training.Title)
}

// TestWorkout_SetsCounter проверяет производный счётчик numbers_reps,
// в том числе при конкурентном добавлении подходов.
func TestWorkout_SetsCounter(t *testing.T) {
	router := testcfg.NewTestRouter(t)
	access := registerAndLogin(t, router, "sets_user")

	single := `{
		"date": "2024-01-10",
		"muscle_groups": [
			{
				"group_name": "chest",
				"exercises": [
					{"exercise_name": "Bench Press", "weight": 80, "sets": [{"weight_per_exe": 80, "reps": 10}]}
				]
			}
		]
	}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/trainings", access, single)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var training workouthandler.TrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))
	exercise := training.MuscleGroups[0].Exercises[0]
	require.Equal(t, 1, exercise.NumbersReps)

	// Два конкурентных добавления подхода
	var wg sync.WaitGroup
	codes := make(chan int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/exercises/%d/sets", exercise.ID), access, `{"weight_per_exe":85,"reps":8}`)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		require.Equal(t, http.StatusCreated, code)
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/exercises/%d", exercise.ID), access, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got workouthandler.ExerciseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 3, got.NumbersReps)
	require.Len(t, got.Sets, 3)

	// Удаление подхода уменьшает счётчик
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/sets/%d", got.Sets[0].ID), access, "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/exercises/%d", exercise.ID), access, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 2, got.NumbersReps)
}

// TestWorkout_OwnershipIsolation проверяет, что чужие тренировки недоступны гостю.
func TestWorkout_OwnershipIsolation(t *testing.T) {
	router := testcfg.NewTestRouter(t)
	ownerAccess := registerAndLogin(t, router, "iso_owner")
	strangerAccess := registerAndLogin(t, router, "iso_stranger")

	w := doJSON(t, router, http.MethodPost, "/api/v1/trainings", ownerAccess, chestTraining)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var training workouthandler.TrainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &training))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", training.ID), strangerAccess, "")
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/trainings/%d", training.ID), strangerAccess, "")
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// Владелец удаляет свою тренировку
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/trainings/%d", training.ID), ownerAccess, "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", training.ID), ownerAccess, "")
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}
