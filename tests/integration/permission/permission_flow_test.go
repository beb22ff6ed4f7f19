//go:build integration
// +build integration

package permission_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	authhandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/auth"
	permissionhandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/permission"
	testcfg "github.com/hhqqrrzz1/Fitness-app-backend/tests/integration/config"
)

func register(t *testing.T, router *gin.Engine, username string) authhandler.UserResponse {
	t.Helper()

	body := fmt.Sprintf(`{"email":"%s@example.com","username":"%s","password":"Password123!"}`, username, username)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user authhandler.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

func login(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader(fmt.Sprintf(`{"username":"%s","password":"Password123!"}`, username)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token authhandler.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	return token.AccessToken
}

// TestPermission_Flow проверяет сценарий управления правами:
// оператор выдаёт права -> гость не может -> защищённого не переключить ->
// удаление гостя -> поиск ID по username.
func TestPermission_Flow(t *testing.T) {
	router, db := testcfg.NewTestRouterWithDB(t)

	// Первый защищённый оператор назначается напрямую в БД (bootstrap):
	// регистрация всегда создаёт гостя. Токен берётся после назначения,
	// так как роль фиксируется в момент выпуска.
	operator := register(t, router, "root_operator")
	err := db.Exec("UPDATE users SET is_admin = true, is_guest = false WHERE username = ?", "root_operator").Error
	require.NoError(t, err)
	operatorAccess := login(t, router, "root_operator")

	guest := register(t, router, "plain_guest")
	guestAccess := login(t, router, "plain_guest")

	// 1. Гость не может выдавать права
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/permission?user_id="+operator.ID, nil)
	req.Header.Set("Authorization", "Bearer "+guestAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// 2. Оператор выдаёт права гостю
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/permission?user_id="+guest.ID, nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var role permissionhandler.RoleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &role))
	require.True(t, role.IsAdmin)
	require.False(t, role.IsGuest)

	// 3. Защищённого оператора переключить нельзя
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/permission?user_id="+operator.ID, nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// 4. Поиск ID по username
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/permission/get_id?username=plain_guest", nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var found permissionhandler.UserIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Equal(t, guest.ID, found.UserID)

	// 5. Администратора удалить нельзя — сначала отозвать права
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/permission/delete?user_id="+guest.ID, nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	// 6. Отзыв прав и удаление
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/permission?user_id="+guest.ID, nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/permission/delete?user_id="+guest.ID, nil)
	req.Header.Set("Authorization", "Bearer "+operatorAccess)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// 7. Учётной записи больше нет
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader(`{"username":"plain_guest","password":"Password123!"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
}
